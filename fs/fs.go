package appfs

import "embed"

//go:embed seed.csv
var FS embed.FS

// SeedCSV is the built-in roster used when no persisted roster exists
// (or when the persisted one cannot be decoded).
func SeedCSV() string {
	data, err := FS.ReadFile("seed.csv")
	if err != nil {
		// embedded at build time; cannot fail at runtime
		panic(err)
	}
	return string(data)
}
