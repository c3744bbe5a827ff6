package names

// aliases overrides the mechanically derived key for particle surnames whose
// casing differs between the two sources. Keys are mechanical Canonicalize
// output; values must already be canonical.
var aliases = map[string]string{
	"De Minaur A.":         "de Minaur A.",
	"Van De Zandschulp B.": "van de Zandschulp B.",
	"Del Potro J.":         "del Potro J.",
	"Da Silva J.":          "da Silva J.",
	"Van Rijthoven T.":     "van Rijthoven T.",
	"De Jong J.":           "de Jong J.",
	"Van Assche L.":        "van Assche L.",
}

