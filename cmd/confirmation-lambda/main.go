package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/config"
	"github.com/jwalitptl/medschedule-api/internal/confirmation"
	"github.com/jwalitptl/medschedule-api/internal/email"
	"github.com/jwalitptl/medschedule-api/pkg/logger"
)

// The confirmation function loads the same configuration as the API; only
// the email and notification sections matter here.
func main() {
	logger.NewLogger(&logger.Config{
		Level:       logger.ParseLevel(os.Getenv("MEDSCHEDULE_LOGGING_LEVEL")),
		Format:      "json",
		ServiceName: "medschedule-confirmation",
	}).SetGlobal()

	cfg, err := config.LoadEmail(os.Getenv("MEDSCHEDULE_CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	sender, err := email.New(context.Background(), cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure email provider")
	}

	relay := confirmation.NewRelay(sender, cfg.Notification.APIKey)
	lambda.Start(relay.HandleAPIGateway)
}
