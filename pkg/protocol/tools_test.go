package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallToolParamsWireFormat(t *testing.T) {
	args, err := json.Marshal(map[string]string{"title": "Notes"})
	require.NoError(t, err)

	params := CallToolParams{Name: "docs_document_create", Arguments: args}
	data, err := json.Marshal(params)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"docs_document_create","arguments":{"title":"Notes"}}`, string(data))
}

func TestCallToolResultFirstText(t *testing.T) {
	cases := []struct {
		name     string
		result   CallToolResult
		wantText string
		wantOK   bool
	}{
		{
			name:   "empty content",
			result: CallToolResult{},
			wantOK: false,
		},
		{
			name: "first item is text",
			result: CallToolResult{Content: []ContentItem{
				{Type: ContentTypeText, Text: `{"documentId":"X"}`},
			}},
			wantText: `{"documentId":"X"}`,
			wantOK:   true,
		},
		{
			name: "text after non-text item",
			result: CallToolResult{Content: []ContentItem{
				{Type: "image"},
				{Type: ContentTypeText, Text: "plain status message"},
			}},
			wantText: "plain status message",
			wantOK:   true,
		},
		{
			name: "no text item",
			result: CallToolResult{Content: []ContentItem{
				{Type: "image"},
			}},
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, ok := tc.result.FirstText()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantText, text)
		})
	}
}

func TestListToolsResultDecode(t *testing.T) {
	line := `{"tools":[{"name":"accounts_list","description":"List accounts","inputSchema":{"type":"object"}}]}`

	var result ListToolsResult
	require.NoError(t, json.Unmarshal([]byte(line), &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "accounts_list", result.Tools[0].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(result.Tools[0].InputSchema))
}

func TestInitializeParamsWireFormat(t *testing.T) {
	params := InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		ClientInfo:      ClientInfo{Name: "doc-driver", Version: "1.0.0"},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"protocolVersion": "2024-11-05",
		"capabilities": {"tools": {}},
		"clientInfo": {"name": "doc-driver", "version": "1.0.0"}
	}`, string(data))
}
