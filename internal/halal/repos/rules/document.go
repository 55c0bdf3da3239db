package rules

// document mirrors the on-disk rules file. Parsing is done by koanf; the
// struct tags drive both decoding and validation.
type document struct {
	StatusLabels map[string]string `koanf:"status_labels" validate:"dive,keys,oneof=halal haram review,endkeys,required"`
	Overrides    overrides         `koanf:"overrides"`
	Rules        keywordLists      `koanf:"rules"`
}

type overrides struct {
	Exact map[string]overrideEntry `koanf:"exact" validate:"dive"`
}

type overrideEntry struct {
	Status string `koanf:"status" validate:"required,oneof=halal haram review"`
	Reason string `koanf:"reason"`
}

type keywordLists struct {
	Haram  []string `koanf:"haram_contains"`
	Review []string `koanf:"review_contains"`
	Halal  []string `koanf:"halal_contains"`
}
