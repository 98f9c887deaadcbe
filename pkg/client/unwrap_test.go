package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngs/google-mcp-client/pkg/protocol"
)

func textResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.ContentItem{{Type: protocol.ContentTypeText, Text: text}},
	}
}

func TestExtractTextResult(t *testing.T) {
	// Empty content yields no text.
	_, ok := ExtractTextResult(&protocol.CallToolResult{})
	assert.False(t, ok)

	_, ok = ExtractTextResult(nil)
	assert.False(t, ok)

	text, ok := ExtractTextResult(textResult(`{"documentId":"X"}`))
	require.True(t, ok)
	assert.Equal(t, `{"documentId":"X"}`, text)

	// Non-text items are skipped.
	result := &protocol.CallToolResult{Content: []protocol.ContentItem{
		{Type: "image"},
		{Type: protocol.ContentTypeText, Text: "second"},
	}}
	text, ok = ExtractTextResult(result)
	require.True(t, ok)
	assert.Equal(t, "second", text)
}

func TestExtractDocumentID(t *testing.T) {
	cases := []struct {
		name   string
		result *protocol.CallToolResult
		wantID string
		wantOK bool
	}{
		{
			name:   "nested document id",
			result: textResult(`{"documentId":"X"}`),
			wantID: "X",
			wantOK: true,
		},
		{
			name:   "plain status message is not an error",
			result: textResult("plain status message"),
			wantOK: false,
		},
		{
			name:   "json without the field",
			result: textResult(`{"title":"Notes"}`),
			wantOK: false,
		},
		{
			name:   "empty content",
			result: &protocol.CallToolResult{},
			wantOK: false,
		},
		{
			name:   "nil result",
			result: nil,
			wantOK: false,
		},
		{
			name:   "empty document id",
			result: textResult(`{"documentId":""}`),
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractDocumentID(tc.result)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	var payload struct {
		Count    int `json:"count"`
		Accounts []struct {
			Email  string `json:"email"`
			Active bool   `json:"active"`
		} `json:"accounts"`
	}

	result := textResult(`{"count":1,"accounts":[{"email":"a@example.com","active":true}]}`)
	require.True(t, ExtractJSON(result, &payload))
	assert.Equal(t, 1, payload.Count)
	require.Len(t, payload.Accounts, 1)
	assert.Equal(t, "a@example.com", payload.Accounts[0].Email)
	assert.True(t, payload.Accounts[0].Active)

	assert.False(t, ExtractJSON(textResult("not json"), &payload))
	assert.False(t, ExtractJSON(&protocol.CallToolResult{}, &payload))
}
