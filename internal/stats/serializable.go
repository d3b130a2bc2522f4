package stats

import "sort"

// Serializable is the JSON wire shape described in spec.md §6. Field
// names/tags are set here rather than at the HTTP-server layer so both
// the metrics endpoint and the teardown guard's Json/JsonPretty formats
// serialize identically.
type Serializable struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	ChannelType   string `json:"channel_type"`
	State         string `json:"state"`
	SentCount     uint64 `json:"sent_count"`
	ReceivedCount uint64 `json:"received_count"`
	Queued        uint64 `json:"queued"`
	TypeName      string `json:"type_name"`
	TypeSize      uint64 `json:"type_size"`
	TotalBytes    uint64 `json:"total_bytes"`
	QueuedBytes   uint64 `json:"queued_bytes"`
}

// ToSerializable converts a Record snapshot entry into its wire shape.
func ToSerializable(r Record) Serializable {
	return Serializable{
		ID:            r.ID,
		Label:         r.Label,
		ChannelType:   r.Kind.String(),
		State:         r.State.String(),
		SentCount:     r.SentCount,
		ReceivedCount: r.ReceivedCount,
		Queued:        r.Queued(),
		TypeName:      r.TypeName,
		TypeSize:      r.TypeSize,
		TotalBytes:    r.TotalBytes(),
		QueuedBytes:   r.QueuedBytes(),
	}
}

// SnapshotSerializable is a convenience used by both the HTTP server and
// the teardown guard: a label-sorted Snapshot(), converted to the wire
// shape, re-sorted by id ascending per spec.md §6 ("Array order:
// ascending by id").
func SnapshotSerializable(r *Registry) []Serializable {
	records := r.Snapshot()
	out := make([]Serializable, len(records))
	for i, rec := range records {
		out[i] = ToSerializable(rec)
	}
	// Snapshot() already sorts by label for the Table format (spec.md
	// §4.C); the JSON contract additionally promises ascending id order,
	// so re-sort on the wire-shape id field specifically.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
