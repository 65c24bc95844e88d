package pricing

// AliasEntry maps a canonical commodity key to its known surface forms.
// Aliases cover the French/English mix sellers actually type.
type AliasEntry struct {
	Key     string
	Aliases []string
}

// AliasTable is an ordered list of alias entries. Order matters: the first
// entry whose aliases hit the listing name wins, regardless of match length.
type AliasTable []AliasEntry

// DefaultAliasTable returns the production alias table.
// Entries are ordered roughly by trading volume on the platform.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		{Key: "wheat", Aliases: []string{"wheat", "blé", "ble", "froment"}},
		{Key: "barley", Aliases: []string{"barley", "orge"}},
		{Key: "corn", Aliases: []string{"corn", "maize", "maïs", "mais"}},
		{Key: "tomato", Aliases: []string{"tomato", "tomatoes", "tomate", "tomates"}},
		{Key: "potato", Aliases: []string{"potato", "potatoes", "pomme de terre", "pommes de terre", "batata"}},
		{Key: "onion", Aliases: []string{"onion", "onions", "oignon", "oignons"}},
		{Key: "pepper", Aliases: []string{"pepper", "peppers", "poivron", "poivrons", "piment"}},
		{Key: "olive", Aliases: []string{"olive", "olives", "huile d'olive", "olive oil"}},
		{Key: "date", Aliases: []string{"dates", "datte", "dattes", "deglet"}},
		{Key: "orange", Aliases: []string{"orange", "oranges", "agrume", "agrumes"}},
		{Key: "lemon", Aliases: []string{"lemon", "lemons", "citron", "citrons"}},
		{Key: "apple", Aliases: []string{"apple", "apples", "pomme", "pommes"}},
		{Key: "grape", Aliases: []string{"grape", "grapes", "raisin", "raisins"}},
		{Key: "almond", Aliases: []string{"almond", "almonds", "amande", "amandes"}},
		{Key: "milk", Aliases: []string{"milk", "lait"}},
		{Key: "egg", Aliases: []string{"egg", "eggs", "oeuf", "oeufs", "œuf", "œufs"}},
		{Key: "chicken", Aliases: []string{"chicken", "poulet", "volaille"}},
		{Key: "beef", Aliases: []string{"beef", "boeuf", "bœuf", "viande bovine"}},
		{Key: "lamb", Aliases: []string{"lamb", "agneau", "mouton"}},
		{Key: "fish", Aliases: []string{"fish", "poisson"}},
		{Key: "sugar", Aliases: []string{"sugar", "sucre"}},
		{Key: "rice", Aliases: []string{"rice", "riz"}},
		{Key: "coffee", Aliases: []string{"coffee", "café", "cafe"}},
		{Key: "honey", Aliases: []string{"honey", "miel"}},
		{Key: "fertilizer", Aliases: []string{"fertilizer", "fertiliser", "engrais"}},
		{Key: "seed", Aliases: []string{"seed", "seeds", "semence", "semences", "graines"}},
	}
}
