package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRequestValidate(t *testing.T) {
	valid := func() *ReportRequest {
		return &ReportRequest{
			ClientName:  "Acme Corp",
			ClientEmail: "ops@acme.example",
			Industry:    "Logistics",
			Answers:     []string{"a1", "a2", "a3"},
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.Nil(t, valid().Validate(3))
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		req := &ReportRequest{}
		ve := req.Validate(3)
		require.NotNil(t, ve)

		for _, field := range []string{"client_name", "client_email", "industry", "question1", "question2", "question3"} {
			assert.Contains(t, ve.Fields, field)
			assert.Contains(t, ve.Fields[field], "Missing data for required field.")
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		tests := []struct {
			name  string
			email string
		}{
			{"no at sign", "not-an-email"},
			{"display name form", "Acme <ops@acme.example>"},
			{"trailing garbage", "ops@acme.example,"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := valid()
				req.ClientEmail = tt.email
				ve := req.Validate(3)
				require.NotNil(t, ve)
				assert.Equal(t, []string{"Not a valid email address."}, ve.Fields["client_email"])
			})
		}
	})

	t.Run("whitespace answer is missing", func(t *testing.T) {
		req := valid()
		req.Answers[1] = "   "
		ve := req.Validate(3)
		require.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "question2")
		assert.NotContains(t, ve.Fields, "question1")
	})

	t.Run("question count bounds the checked answers", func(t *testing.T) {
		req := valid()
		req.Answers = append(req.Answers, "a4", "a5")
		assert.Nil(t, req.Validate(5))

		req.Answers = req.Answers[:4]
		ve := req.Validate(5)
		require.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "question5")
	})
}

func TestNewReportID(t *testing.T) {
	ts := time.Date(2024, 4, 5, 12, 30, 45, 999, time.UTC)
	assert.Equal(t, "1712320245", NewReportID(ts))

	// Sub-second precision never leaks into the ID
	assert.Equal(t, NewReportID(ts), NewReportID(ts.Add(500*time.Millisecond)))
}

func TestSectionPlaceholder(t *testing.T) {
	assert.Equal(t, "Industry Trends section is unavailable.", SectionIndustryTrends.Placeholder())
	assert.Equal(t, "Conclusion section is unavailable.", SectionConclusion.Placeholder())
}

func TestSectionTogglesEnabled(t *testing.T) {
	var nilToggles SectionToggles
	assert.True(t, nilToggles.Enabled(SectionIntroduction))

	toggles := SectionToggles{SectionAnalysis: false}
	assert.False(t, toggles.Enabled(SectionAnalysis))
	assert.True(t, toggles.Enabled(SectionIntroduction), "absent key means enabled")
}

func TestPipelineResultJSON(t *testing.T) {
	t.Run("null urls are emitted explicitly", func(t *testing.T) {
		result := PipelineResult{Status: StatusSuccess, ReportID: "1712320245"}
		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"success","report_id":"1712320245","pdf_url":null,"doc_url":null}`, string(data))
	})

	t.Run("populated urls", func(t *testing.T) {
		result := PipelineResult{
			Status:   StatusSuccess,
			ReportID: "1712320245",
			PDFURL:   OptionalURL("https://pdf.example.com/r.pdf"),
			DocURL:   OptionalURL(""),
		}
		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"success","report_id":"1712320245","pdf_url":"https://pdf.example.com/r.pdf","doc_url":null}`, string(data))
	})
}

func TestValidationErrorAdd(t *testing.T) {
	ve := NewValidationError("report.validate", "client_name", "Missing data for required field.")
	ve.Add("client_name", "Name too short.")
	ve.Add("industry", "Missing data for required field.")

	assert.Len(t, ve.Fields["client_name"], 2)
	assert.False(t, ve.Empty())
}
