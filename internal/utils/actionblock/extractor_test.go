package actionblock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

func TestExtract_SingleBlock(t *testing.T) {
	text := "Pronto! Registrei o gasto de R$ 50,00 no mercado.\n\n" +
		"```json\n{\"action\":\"add_transaction\",\"data\":{\"description\":\"Mercado\",\"amount\":50,\"type\":\"expense\",\"category\":\"Alimentação\"}}\n```"

	res := NewFenceExtractor().Extract(text)

	assert.Equal(t, "Pronto! Registrei o gasto de R$ 50,00 no mercado.", res.CleanText)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, domain.ActionAddTransaction, res.Actions[0].Kind)
	assert.JSONEq(t, `{"description":"Mercado","amount":50,"type":"expense","category":"Alimentação"}`, string(res.Actions[0].Data))
}

func TestExtract_PreservesOrder(t *testing.T) {
	text := "Feito.\n" +
		"```json\n{\"action\":\"add_category\",\"data\":{\"name\":\"Pets\"}}\n```\n" +
		"E também:\n" +
		"```json\n{\"action\":\"add_goal\",\"data\":{\"title\":\"Viagem\",\"target_amount\":3000,\"type\":\"savings\"}}\n```\n" +
		"```json\n{\"action\":\"delete_goal\",\"data\":{\"title\":\"Carro\"}}\n```"

	res := FenceExtractor{}.Extract(text)

	require.Len(t, res.Actions, 3)
	assert.Equal(t, domain.ActionAddCategory, res.Actions[0].Kind)
	assert.Equal(t, domain.ActionAddGoal, res.Actions[1].Kind)
	assert.Equal(t, domain.ActionDeleteGoal, res.Actions[2].Kind)
	assert.Equal(t, "Feito.\n\nE também:", res.CleanText)
}

func TestExtract_InvalidBlocksAreStrippedButSkipped(t *testing.T) {
	text := "Oi\n" +
		"```json\n{not valid}\n```\n" +
		"```json\n{\"action\":\"add_goal\"}\n```\n" +
		"```json\n{\"data\":{\"title\":\"x\"}}\n```\n" +
		"```json\n[1,2,3]\n```\n" +
		"tchau"

	res := FenceExtractor{}.Extract(text)

	assert.Empty(t, res.Actions)
	assert.NotContains(t, res.CleanText, "```json")
	assert.True(t, strings.HasPrefix(res.CleanText, "Oi"))
	assert.True(t, strings.HasSuffix(res.CleanText, "tchau"))
}

func TestExtract_UnknownKindIsReturned(t *testing.T) {
	res := FenceExtractor{}.Extract("```json\n{\"action\":\"transfer_money\",\"data\":{\"amount\":10}}\n```")

	require.Len(t, res.Actions, 1)
	assert.Equal(t, domain.ActionKind("transfer_money"), res.Actions[0].Kind)
	assert.Empty(t, res.CleanText)
}

func TestExtract_UnterminatedFenceIsHidden(t *testing.T) {
	text := "Registrando agora...\n```json\n{\"action\":\"add_transaction\",\"data\":{\"desc"

	res := FenceExtractor{}.Extract(text)

	assert.Empty(t, res.Actions)
	assert.Equal(t, "Registrando agora...", res.CleanText)
}

func TestExtract_PlainText(t *testing.T) {
	res := FenceExtractor{}.Extract("  Seu saldo está positivo.  \n")
	assert.Empty(t, res.Actions)
	assert.Equal(t, "Seu saldo está positivo.", res.CleanText)
}

func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"texto simples",
		"a ```json\n{\"action\":\"add_category\",\"data\":{\"name\":\"Pets\"}}\n``` b",
		"``" + "```json\n{}\n```" + "`json {\"action\":\"x\",\"data\":{}}```",
		"começo ```json\n{\"action\":\"add_goal\",",
		"```json```json```",
		"a ` ``",
	}

	ex := NewFenceExtractor()
	for _, in := range inputs {
		first := ex.Extract(in)
		second := ex.Extract(first.CleanText)

		assert.Empty(t, second.Actions, "input %q", in)
		assert.Equal(t, first.CleanText, second.CleanText, "input %q", in)
		assert.NotContains(t, first.CleanText, "```json", "input %q", in)
	}
}

func TestExtract_OpeningFenceArrivingInPieces(t *testing.T) {
	pieces := []string{
		"Anotado! ",
		"``",
		"`js",
		"on\n{\"action\":\"add_transaction\",\"data\":{\"description\":\"Pão\",\"amount\":8}}",
		"\n```",
	}

	ex := NewFenceExtractor()
	var raw strings.Builder
	var seen []string
	for _, piece := range pieces {
		raw.WriteString(piece)
		seen = append(seen, ex.Extract(raw.String()).CleanText)
	}

	assert.Equal(t, []string{"Anotado!", "Anotado!", "Anotado!", "Anotado!", "Anotado!"}, seen)
	assert.Len(t, ex.Extract(raw.String()).Actions, 1)
}

func TestExtract_InlineCodeKeepsClosingBacktick(t *testing.T) {
	res := FenceExtractor{}.Extract("Use o comando `saldo`")
	assert.Equal(t, "Use o comando `saldo`", res.CleanText)

	res = FenceExtractor{}.Extract("Veja abaixo: `")
	assert.Equal(t, "Veja abaixo:", res.CleanText)
}
