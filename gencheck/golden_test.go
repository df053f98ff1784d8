package gencheck_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/faked/faked/diag"
	"github.com/teranos/faked/gencheck"
	"github.com/teranos/faked/host"
	"github.com/teranos/faked/manifest"
)

// Each archive holds one manifest, want.swift and diagnostics.
func TestGoldenExpansions(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "golden", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	reg, err := host.NewDefaultRegistry("dev")
	require.NoError(t, err)
	pipeline := host.NewPipeline(reg)

	for _, path := range archives {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			sections := map[string]string{}
			var input, inputName string
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
				if manifest.IsManifest(f.Name) {
					input, inputName = string(f.Data), f.Name
				}
			}
			require.NotEmpty(t, inputName, "archive has no manifest")

			format, err := manifest.DetectFormat(inputName)
			require.NoError(t, err)
			file, err := manifest.Parse(inputName, format, []byte(input))
			require.NoError(t, err)

			fr, err := pipeline.ExpandFile(context.Background(), file)
			require.NoError(t, err)

			got := gencheck.Render(file.Name, fr.Generated(), gencheck.RenderOptions{Indent: 2})
			assert.Equal(t, sections["want.swift"], string(got))
			assert.Equal(t,
				strings.TrimSpace(sections["diagnostics"]),
				diag.FormatAll(fr.Diagnostics(), diag.ContextPlain))
		})
	}
}
