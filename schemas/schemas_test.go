package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_Embedded(t *testing.T) {
	names, err := fs.Glob(Files, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ResumeRequest, Responses}, names)
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range []string{ResumeRequest, Responses} {
		t.Run(name, func(t *testing.T) {
			data, err := Files.ReadFile(name)
			require.NoError(t, err, "should be able to read embedded schema")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", name)

			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasSchema, "schema should declare $schema")
		})
	}
}

func TestResumeRequestSchema_Compiles(t *testing.T) {
	data, err := Files.ReadFile(ResumeRequest)
	require.NoError(t, err)

	_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	assert.NoError(t, err)
}

func TestResponsesSchema_DefinitionsPresent(t *testing.T) {
	data, err := Files.ReadFile(Responses)
	require.NoError(t, err)

	var doc struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, def := range []string{"resume", "resumeArray", "createResume", "copyResume", "templates"} {
		assert.Contains(t, doc.Definitions, def)
	}
}
