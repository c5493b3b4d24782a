// Package vocab holds the closed attribute vocabularies and the validation
// rules that normalize provider output against them.
//
// The labels are the catalog's own (Brazilian Portuguese) and are treated as
// opaque members: an attribute value is either a member of its vocabulary or
// the empty string, meaning unknown / below the confidence threshold.
package vocab

// Countries lists accepted countries of origin.
var Countries = []string{
	"Argentina",
	"Australia",
	"Chile",
	"França",
	"Itália",
	"Portugal",
	"Espanha",
	"Estados Unidos",
	"África do Sul",
	"Brasil",
	"Nova Zelândia",
	"Alemanha",
}

// WineTypes lists accepted wine types.
var WineTypes = []string{
	"Tinto",
	"Branco",
	"Rosé",
	"Espumante",
	"Sidra",
	"Outros",
}

// Classifications lists accepted sweetness classifications.
var Classifications = []string{
	"Seco",
	"Suave",
	"Demi-Sec",
	"Brut",
}

// GrapeVarieties lists accepted grape varieties. "Blend" covers any
// mixed-grape wine, listed or not.
var GrapeVarieties = []string{
	"Cabernet Sauvignon",
	"Merlot",
	"Pinot Noir",
	"Syrah",
	"Malbec",
	"Carmeneré",
	"Tannat",
	"Zinfandel",
	"Chardonnay",
	"Sauvignon Blanc",
	"Riesling",
	"Moscato",
	"Blend",
	"Outras",
}

// Sizes lists accepted bottle sizes.
var Sizes = []string{
	"750ml",
	"1L",
	"375ml",
	"Outros",
}

// Closures lists accepted closure types.
var Closures = []string{
	"Rolha",
	"Rosca",
	"Outra",
}

// WinePairings lists accepted food pairings. This is the only multi-valued
// attribute.
var WinePairings = []string{
	"Pizzas e Massas de Molho Vermelho",
	"Carnes vermelhas",
	"Queijos",
	"Saladas e aperitivos",
	"Carnes brancas",
	"Frutos do mar",
	"Carnes de caça",
	"Risoto e Massas de Molho Branco",
	"Pratos apimentados",
	"Sobremesas",
}
