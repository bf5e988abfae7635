package pending

import (
	"encoding/json"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/pkg/errors"
)

// decodeEntries parses the persisted blob. The format is a flat JSON array of
// entries; anything else is a parse error. The empty string decodes to nil,
// matching an absent blob.
func decodeEntries(raw string) ([]model.PendingEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var entries []model.PendingEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.NewParse("pending blob", err)
	}
	return entries, nil
}

func encodeEntries(entries []model.PendingEntry) (string, error) {
	if entries == nil {
		entries = []model.PendingEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return string(data), nil
}
