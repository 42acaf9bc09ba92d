package menu

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const notifyChannel = "menu_changed"

// Listener mantém uma conexão dedicada em LISTEN menu_changed e repassa
// cada notificação ao agregador. A conexão é refeita com um pequeno
// intervalo quando cai.
type Listener struct {
	url string
	agg *Aggregator
	log *zap.Logger
}

func NewListener(databaseURL string, agg *Aggregator, log *zap.Logger) *Listener {
	return &Listener{url: databaseURL, agg: agg, log: log}
}

func (l *Listener) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.log.Warn("conexão de notificações do cardápio perdida", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	l.log.Info("escutando notificações do cardápio", zap.String("channel", notifyChannel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.agg.Notify(notification.Payload)
	}
}
