package confirmation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/model"
)

// CORSHeaders are returned on every response, preflight included.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
}

// HandleAPIGateway adapts the relay to an API Gateway proxy event.
func (r *Relay) HandleAPIGateway(ctx context.Context, evt events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if evt.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: CORSHeaders}, nil
	}
	if evt.HTTPMethod != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, model.ConfirmationResponse{Error: "method not allowed"}), nil
	}
	if err := r.Authorize(header(evt.Headers, "Authorization")); err != nil {
		return respond(http.StatusUnauthorized, model.ConfirmationResponse{Error: err.Error()}), nil
	}

	body := []byte(evt.Body)
	if evt.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return respond(http.StatusInternalServerError, model.ConfirmationResponse{Error: "invalid body encoding"}), nil
		}
		body = decoded
	}

	var req model.ConfirmationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return respond(http.StatusInternalServerError, model.ConfirmationResponse{Error: err.Error()}), nil
	}

	resp, err := r.Send(ctx, &req)
	if err != nil {
		return respond(http.StatusInternalServerError, model.ConfirmationResponse{Error: err.Error()}), nil
	}
	return respond(http.StatusOK, *resp), nil
}

const fallbackBody = `{"success":false,"error":"internal error"}`

func respond(status int, body any) events.APIGatewayProxyResponse {
	encoded, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode function response")
		status, encoded = http.StatusInternalServerError, []byte(fallbackBody)
	}
	headers := make(map[string]string, len(CORSHeaders)+1)
	for k, v := range CORSHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(encoded)}
}

// header looks a header up case-insensitively; API Gateway keeps client casing.
func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
