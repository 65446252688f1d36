package record

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed.json
var seedData []byte

// Seed returns the built-in demo dataset. It is what GetAll falls back to when
// storage is unreadable, and what `pocket seed` writes into an empty store.
func Seed() []Record {
	var records []Record
	if err := json.Unmarshal(seedData, &records); err != nil {
		panic("record: invalid embedded seed: " + err.Error())
	}

	for i, r := range records {
		records[i] = Normalize(r)
		records[i].CreatedAt = r.Date
		records[i].UpdatedAt = r.Date
	}

	return records
}
