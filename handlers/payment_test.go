package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/models"
	"concierge/services/svcerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakePaymentService struct {
	result *models.PaymentResult
	err    error
}

func (f *fakePaymentService) ProcessPayment(_ context.Context, _ models.PaymentRequest) (*models.PaymentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func paymentRouter(svc *fakePaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/process-payment", NewPaymentHandler(svc).ProcessPayment)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessPaymentEndpointSuccess(t *testing.T) {
	r := paymentRouter(&fakePaymentService{result: &models.PaymentResult{
		Status: models.PaymentStatusSuccess, Message: "payment processed successfully", TransactionID: "txn_1",
	}})

	w := postJSON(t, r, "/api/process-payment",
		`{"bookingId":"X1","amount":300,"method":"credit_card"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"success"`)
	require.Contains(t, w.Body.String(), `"transactionId":"txn_1"`)
}

func TestProcessPaymentEndpointDeclineIsOK(t *testing.T) {
	r := paymentRouter(&fakePaymentService{result: &models.PaymentResult{
		Status: models.PaymentStatusFailed, Message: "card declined",
	}})

	w := postJSON(t, r, "/api/process-payment",
		`{"bookingId":"X1","amount":300,"method":"credit_card"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"failed"`)
}

func TestProcessPaymentEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", svcerr.New(svcerr.CodeValidation, "amount must be positive"), http.StatusBadRequest},
		{"not found", svcerr.New(svcerr.CodeNotFound, "booking not found"), http.StatusNotFound},
		{"conflict", svcerr.New(svcerr.CodeConflict, "a payment for this booking is already in progress"), http.StatusConflict},
		{"upstream", svcerr.New(svcerr.CodeUpstream, "payment gateway unavailable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := paymentRouter(&fakePaymentService{err: tc.err})
			w := postJSON(t, r, "/api/process-payment",
				`{"bookingId":"X1","amount":300,"method":"credit_card"}`)
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestProcessPaymentEndpointUpstreamHidesCause(t *testing.T) {
	r := paymentRouter(&fakePaymentService{
		err: svcerr.New(svcerr.CodeUpstream, "payment gateway unavailable"),
	})

	w := postJSON(t, r, "/api/process-payment",
		`{"bookingId":"X1","amount":300,"method":"credit_card"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Internal Server Error")
	require.NotContains(t, w.Body.String(), "gateway")
}

func TestProcessPaymentEndpointBadJSON(t *testing.T) {
	r := paymentRouter(&fakePaymentService{})

	w := postJSON(t, r, "/api/process-payment", `{"bookingId":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
