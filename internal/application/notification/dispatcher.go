// Package notification desacopla el envío de correos del camino crítico de autenticación.
// Los casos de uso encolan mensajes; un pool de workers los entrega con su propio
// timeout y registra los fallos sin propagarlos.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrStopped el dispatcher ya no acepta mensajes.
var ErrStopped = errors.New("notification: dispatcher detenido")

// Message correo HTML a un único destinatario.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender puerto de entrega (SMTP en producción).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config parámetros del pool.
type Config struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher cola acotada de mensajes pendientes.
type Dispatcher struct {
	sender  Sender
	cfg     Config
	queue   chan Message
	log     zerolog.Logger
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher construye el dispatcher; valores no positivos toman defaults.
func NewDispatcher(sender Sender, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		sender: sender,
		cfg:    cfg,
		queue:  make(chan Message, cfg.QueueSize),
		log:    log,
	}
}

// Enqueue agrega un mensaje sin bloquear. Devuelve false si la cola está llena o detenida;
// el llamador no debe tratarlo como error de la operación principal.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("notificación descartada: dispatcher detenido")
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("notificación descartada: cola llena")
		return false
	}
}

// Run consume la cola hasta que ctx se cancela; luego drena lo pendiente y retorna.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < d.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range d.queue {
				d.deliver(ctx, msg)
			}
		}()
	}

	<-ctx.Done()
	d.mu.Lock()
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	wg.Wait()
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	// El envío sobrevive a la cancelación del proceso durante el drenado, acotado por SendTimeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.SendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		d.log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("envío de notificación fallido")
		return
	}
	d.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("notificación enviada")
}
