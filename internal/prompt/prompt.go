// Package prompt builds the instructions sent to an attribute-generation
// model. Both variants embed the full vocabularies, the confidence threshold
// rule and an explicit confidence rubric so any model's output stays
// machine-checkable by the validator.
package prompt

import (
	"fmt"
	"strings"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/vocab"
)

// DefaultConfidenceThreshold is used when the caller passes no threshold.
const DefaultConfidenceThreshold = 50

const rubric = `Para cada atributo, forneça um nível de confiança em porcentagem (0 a 100, retornando como número e não string), onde:
- 0%% - Nenhuma confiança (chute)
- 30%% - Baixa confiança (pouca certeza)
- 50%% - Média confiança (provável)
- 70%% - Alta confiança (muito provável)
- 100%% - Certeza absoluta (explícito no nome ou fonte confiável)`

const jsonObjectShape = `{
  "id": "o número do id do produto fornecido entre colchetes (exemplo: 1, 2, 3, etc.)",
  "nome": "nome do produto analisado",
  "pais": {"value": "país de origem do vinho", "confidence": 0},
  "tipo": {"value": "tipo do vinho", "confidence": 0},
  "classificacao": {"value": "classificação do vinho", "confidence": 0},
  "uva": {"value": "variedade da uva", "confidence": 0},
  "tamanho": {"value": "tamanho da garrafa", "confidence": 0},
  "tampa": {"value": "tipo de tampa", "confidence": 0},
  "harmonizacao": {"values": ["harmonizações sugeridas"], "confidence": 0}
}`

// Single builds the prompt for one product.
func Single(input model.WineInput, threshold int) string {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	var b strings.Builder
	b.WriteString("Para o produto abaixo use a internet (ou base de dados confiável) para identificar os atributos solicitados. Aplique máxima profundidade de busca.\n\n")
	writeRules(&b, threshold)
	fmt.Fprintf(&b, "Produto: [ID: %d] Nome: %s\n\n", input.ID, input.Title)
	writeCategories(&b)
	b.WriteString("Retorne APENAS o objeto JSON com os seguintes campos:\n")
	b.WriteString(jsonObjectShape)
	b.WriteString("\n\nIMPORTANTE: Retorne SOMENTE o objeto JSON diretamente, sem explicações, sem texto adicional, e sem marcar o código com blocos de markdown como ```json. O output deve ser um JSON puro, começando com { e terminando com }.\n")
	return b.String()
}

// Batch builds the prompt for several products at once, instructing the
// model to evaluate each in isolation and answer with a raw JSON array.
func Batch(inputs []model.WineInput, threshold int) string {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	var b strings.Builder
	b.WriteString("Para cada produto listado abaixo, analise individualmente como se fosse o único item no prompt. Use a internet (ou base de dados confiável) para identificar os atributos solicitados. Aplique máxima profundidade e precisão em cada item. Não compartilhe ou reutilize inferências entre produtos.\n\n")
	writeRules(&b, threshold)
	b.WriteString("Produtos:\n")
	for i, input := range inputs {
		fmt.Fprintf(&b, "%d. [ID: %d] %s\n", i+1, input.ID, input.Title)
	}
	b.WriteString("\n")
	writeCategories(&b)
	b.WriteString("Retorne APENAS o array de objetos JSON, um objeto por produto, cada um com os seguintes campos:\n[\n")
	b.WriteString(jsonObjectShape)
	b.WriteString("\n]\n\nIMPORTANTE: Retorne SOMENTE o array JSON diretamente, sem explicações, sem texto adicional, e sem marcar o código com blocos de markdown como ```json. O output deve ser um JSON puro, começando com [ e terminando com ].\n")
	return b.String()
}

func writeRules(b *strings.Builder, threshold int) {
	fmt.Fprintf(b, "Use APENAS os valores fornecidos em cada categoria com nível de confiabilidade acima de %d%%. 'Outras', 'Outros', 'Outra', 'Outro' podem ser utilizados quando não se encaixarem nos demais valores e tiverem essa confiança de %d%% ou mais. Se não tiver confiança de %d%% ou mais, retorne uma string vazia (\"\").\n\n", threshold, threshold, threshold)
	b.WriteString("Para o campo harmonização, é possível retornar múltiplos valores da lista fornecida.\n")
	b.WriteString("Para o campo uva, se for uma mistura de uvas, retorne 'Blend'.\n")
	fmt.Fprintf(b, rubric)
	b.WriteString("\n\n")
}

func writeCategories(b *strings.Builder) {
	b.WriteString("Categorias disponíveis:\n\n")
	fmt.Fprintf(b, "País de Origem: %s\n", strings.Join(vocab.Countries, ", "))
	fmt.Fprintf(b, "Tipo de Vinho: %s\n", strings.Join(vocab.WineTypes, ", "))
	fmt.Fprintf(b, "Classificação: %s\n", strings.Join(vocab.Classifications, ", "))
	fmt.Fprintf(b, "Uva: %s (use \"Blend\" para misturas de uvas mesmo que não sejam uvas listadas anteriormente)\n", strings.Join(vocab.GrapeVarieties, ", "))
	fmt.Fprintf(b, "Tamanho: %s\n", strings.Join(vocab.Sizes, ", "))
	fmt.Fprintf(b, "Tampa: %s\n", strings.Join(vocab.Closures, ", "))
	fmt.Fprintf(b, "Harmonização: %s\n\n", strings.Join(vocab.WinePairings, ", "))
}
