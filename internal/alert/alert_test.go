package alert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"complete", Request{Email: "a@b.co", BidTitle: "Roof"}, false},
		{"missing email", Request{BidTitle: "Roof"}, true},
		{"missing title", Request{Email: "a@b.co"}, true},
		{"blank title", Request{Email: "a@b.co", BidTitle: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingFields)
				assert.Equal(t, "Email and bid title are required", err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestWithDefaults(t *testing.T) {
	got := Request{Email: "a@b.co", BidTitle: "Roof"}.WithDefaults()
	assert.Equal(t, "Unknown Agency", got.Agency)
	assert.Equal(t, "Not specified", got.DueDate)
	assert.Equal(t, "Not specified", got.Budget)
	assert.Equal(t, "#", got.URL)

	kept := Request{Agency: "SFUSD", DueDate: "03/15/2025", Budget: "$150k", URL: "https://x"}.WithDefaults()
	assert.Equal(t, "SFUSD", kept.Agency)
	assert.Equal(t, "03/15/2025", kept.DueDate)
	assert.Equal(t, "$150k", kept.Budget)
	assert.Equal(t, "https://x", kept.URL)
}

func TestRenderAlert(t *testing.T) {
	subject, html, err := RenderAlert(Request{
		BidTitle: "Gym <Roof> & Gutters",
		Agency:   "SFUSD",
		DueDate:  "03/15/2025",
		Budget:   "$150k",
		URL:      "https://sfusd.example/bid/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Bid Match: Gym <Roof> & Gutters", subject)
	assert.Contains(t, html, "Gym &lt;Roof&gt; &amp; Gutters")
	assert.Contains(t, html, `href="https://sfusd.example/bid/1"`)
	assert.Contains(t, html, "<strong>Agency:</strong> SFUSD")
	assert.Contains(t, html, "<strong>Estimated Budget:</strong> $150k")
}

func TestRenderAlertRejectsScriptURL(t *testing.T) {
	_, html, err := RenderAlert(Request{BidTitle: "x", URL: "javascript:alert(1)"})
	require.NoError(t, err)
	assert.NotContains(t, html, "javascript:")
}

func TestResendSender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

		var body resendEmail
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultFrom, body.From)
		assert.Equal(t, []string{"pm@contractor.example"}, body.To)
		assert.Equal(t, "New Bid Match: Roof", body.Subject)

		_, _ = io.WriteString(w, `{"id":"msg_123"}`)
	}))
	defer srv.Close()

	svc := NewService(NewResendSender(srv.URL, "re_test"), "", zaptest.NewLogger(t))
	res, err := svc.SendBidAlert(context.Background(), Request{Email: "pm@contractor.example", BidTitle: "Roof"})
	require.NoError(t, err)
	assert.Equal(t, Result{ID: "msg_123", Provider: "resend"}, res)
}

func TestResendSenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"statusCode":422,"message":"Invalid to field"}`)
	}))
	defer srv.Close()

	_, err := NewResendSender(srv.URL, "k").Send(context.Background(), Message{To: []string{"bad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid to field")
	assert.Contains(t, err.Error(), "422")
}

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Name() string { return "memory" }

func (r *recordingSender) Send(_ context.Context, msg Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return "id-1", nil
}

func TestServiceSkipsInvalidRequests(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "", zaptest.NewLogger(t))

	_, err := svc.SendBidAlert(context.Background(), Request{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, sender.sent)
}

func TestServiceWrapsSenderError(t *testing.T) {
	boom := errors.New("smtp down")
	svc := NewService(&recordingSender{err: boom}, "Alerts <a@b.co>", zaptest.NewLogger(t))

	_, err := svc.SendBidAlert(context.Background(), Request{Email: "a@b.co", BidTitle: "Roof"})
	assert.ErrorIs(t, err, boom)
}

func TestServiceAppliesDefaults(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "Alerts <a@b.co>", zaptest.NewLogger(t))

	_, err := svc.SendBidAlert(context.Background(), Request{Email: "a@b.co", BidTitle: "Roof"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Alerts <a@b.co>", sender.sent[0].From)
	assert.Contains(t, sender.sent[0].HTML, "Unknown Agency")
	assert.Contains(t, sender.sent[0].HTML, `href="#"`)
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{MessageId: aws.String("ses-42")}, nil
}

func TestSESSender(t *testing.T) {
	fake := &fakeSES{}
	id, err := NewSESSenderWithClient(fake).Send(context.Background(), Message{
		From:    DefaultFrom,
		To:      []string{"pm@contractor.example"},
		Subject: "New Bid Match: Roof",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-42", id)

	require.NotNil(t, fake.input)
	assert.Equal(t, []string{"pm@contractor.example"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, DefaultFrom, aws.ToString(fake.input.Source))
	assert.Equal(t, "New Bid Match: Roof", aws.ToString(fake.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.input.Message.Body.Html.Data))
}
