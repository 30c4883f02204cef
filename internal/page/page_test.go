package page

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/models"
)

func TestRender(t *testing.T) {
	t.Run("replaces the placeholder with records", func(t *testing.T) {
		var out bytes.Buffer
		tmpl := []byte(`<script>const data = {{FLAVOR_DATA}};</script>`)

		err := Render(&out, tmpl, []models.PairingRecord{
			{Main: "chicken", Pairing: "garlic", Level: 3},
		})

		require.NoError(t, err)
		assert.Equal(t, `<script>const data = [{"main":"chicken","pairing":"garlic","level":3}];</script>`, out.String())
	})

	t.Run("keeps non-ascii text", func(t *testing.T) {
		var out bytes.Buffer

		err := Render(&out, []byte(Placeholder), []models.PairingRecord{
			{Main: "crème fraîche", Pairing: "piment d’espelette", Level: 1},
		})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "crème fraîche")
		assert.Contains(t, out.String(), "piment d’espelette")
	})

	t.Run("nil records render as an empty array", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, Render(&out, []byte(Placeholder), nil))
		assert.Equal(t, "[]", out.String())
	})

	t.Run("template without placeholder is rejected", func(t *testing.T) {
		var out bytes.Buffer

		err := Render(&out, []byte("<html></html>"), nil)

		assert.ErrorIs(t, err, errors.ErrValidation)
		assert.Zero(t, out.Len())
	})
}

func TestDefaultTemplate(t *testing.T) {
	tmpl := DefaultTemplate()

	assert.Contains(t, string(tmpl), Placeholder)
	assert.Contains(t, string(tmpl), `id="mutual-only"`)
	assert.Contains(t, string(tmpl), `id="graph"`)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "pairings.csv")
	csv := "MAIN,PAIRING,RECOMMENDATION_LEVEL\nChicken,Garlic,3\ngarlic,chicken,2\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o600))

	t.Run("writes page with lower-cased records", func(t *testing.T) {
		tmplPath := filepath.Join(dir, "template.html")
		require.NoError(t, os.WriteFile(tmplPath, []byte("DATA="+Placeholder), 0o600))
		outPath := filepath.Join(dir, "index.html")

		n, err := Build(csvPath, tmplPath, outPath)

		require.NoError(t, err)
		assert.Equal(t, 2, n)

		written, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var records []models.PairingRecord
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(string(written), "DATA=")), &records))
		assert.Equal(t, []models.PairingRecord{
			{Main: "chicken", Pairing: "garlic", Level: 3},
			{Main: "garlic", Pairing: "chicken", Level: 2},
		}, records)
	})

	t.Run("uses the built-in template by default", func(t *testing.T) {
		outPath := filepath.Join(dir, "default.html")

		_, err := Build(csvPath, "", outPath)

		require.NoError(t, err)
		written, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.NotContains(t, string(written), Placeholder)
		assert.Contains(t, string(written), `"main":"chicken"`)
	})

	t.Run("built page draws graphs without the API", func(t *testing.T) {
		outPath := filepath.Join(dir, "offline.html")

		_, err := Build(csvPath, "", outPath)

		require.NoError(t, err)
		written, err := os.ReadFile(outPath)
		require.NoError(t, err)

		page := string(written)
		assert.Contains(t, page, "function computeGraph(selection, mutualOnly)")
		assert.Contains(t, page, `flavorData.filter(d => mainSet.has(d.pairing))`)
		assert.Contains(t, page, `if (location.protocol === "file:") {`)
		assert.Equal(t, 2, strings.Count(page, "draw(computeGraph(selected, mutual));"),
			"graph is computed locally both from disk and when the API request fails")
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := Build(csvPath, filepath.Join(dir, "nope.html"), filepath.Join(dir, "x.html"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
