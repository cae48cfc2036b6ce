package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// bookshop consume-events
var consumeEventsCmd = &cobra.Command{
	Use:   "consume-events",
	Short: "消费订单事件队列并写审计日志",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.MQ.Enabled {
			return errors.New("mq.enabled为false,没有可消费的事件")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.Queue, []string{"order.*"})
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()

		handler := messaging.NewOrderEventHandler(consumer.Queue())
		zap.L().Info("consuming order events", zap.String("queue", consumer.Queue()))
		return consumer.Consume(ctx, handler.Handle)
	},
}
