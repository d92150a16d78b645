package decorator

import (
	"context"
	"time"

	"github.com/architeacher/members/pkg/logger"
)

type (
	commandLoggingDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		logger logger.Logger
	}

	queryLoggingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		logger logger.Logger
	}
)

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	log := d.logger.WithContext(ctx).With().
		Str("command", generateActionName(cmd)).
		Interface("command_body", cmd).
		Logger()

	log.Debug().Msg("executing command")

	start := time.Now()

	defer func() {
		event := log.Info()
		if err != nil {
			event = log.Error().Err(err)
		}

		event.Dur("duration", time.Since(start)).Msg("command executed")
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryLoggingDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	log := d.logger.WithContext(ctx).With().
		Str("query", generateActionName(query)).
		Interface("query_body", query).
		Logger()

	log.Debug().Msg("executing query")

	start := time.Now()

	defer func() {
		if err != nil {
			log.Error().Err(err).Dur("duration", time.Since(start)).Msg("query failed")

			return
		}

		log.Debug().
			Dur("duration", time.Since(start)).
			Str("cache", string(CacheStatusFromContext(ctx))).
			Msg("query executed")
	}()

	return d.base.Execute(ctx, query)
}
