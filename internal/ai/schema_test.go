package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDetails(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty object", doc: `{}`},
		{name: "full", doc: `{"scope_summary":"Roof","pay":{"estimated_budget":"$150k"},"hard_requirements":["C-39"],"trades_required":["Roofing"]}`},
		{name: "nulls accepted", doc: `{"pay":null,"hard_requirements":["Bonding",null],"contract_length":{"duration":null}}`},
		{name: "wrong array type", doc: `{"hard_requirements":"C-39 license"}`, wantErr: "hard_requirements"},
		{name: "wrong nested type", doc: `{"bid_ask":{"deliverables":"drawings"}}`, wantErr: "deliverables"},
		{name: "not an object", doc: `["Roofing"]`, wantErr: "expected a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateDetails([]byte(tt.doc))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLLMResponseRejectsSchemaMismatch(t *testing.T) {
	_, err := parseLLMResponse(`{"trades_required":"Plumbing"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match bid schema")
}
