package productos

import (
	"context"
	"time"
)

// RetryConfig acota los reintentos ante fallas de transporte.
type RetryConfig struct {
	MaxIntentos int           // intentos totales (incluido el primero)
	Backoff     time.Duration // espera inicial; se duplica por intento
	MaxBackoff  time.Duration
}

// DefaultRetryConfig valores por defecto para hablar con productos.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxIntentos: 3,
		Backoff:     200 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
	}
}

// normalizar evita configuraciones que deshabiliten la llamada por completo.
func (c RetryConfig) normalizar() RetryConfig {
	if c.MaxIntentos <= 0 {
		c.MaxIntentos = 1
	}
	if c.Backoff <= 0 {
		c.Backoff = 200 * time.Millisecond
	}
	if c.MaxBackoff < c.Backoff {
		c.MaxBackoff = c.Backoff
	}
	return c
}

// conReintentos ejecuta fn con backoff exponencial. fn devuelve (resultado,
// definitivo, error): definitivo=true significa que hubo respuesta del
// servidor y NO debe reintentarse aunque haya error, porque un reintento tras
// una respuesta podría aplicar el delta dos veces (la operación remota no es
// idempotente). Solo las fallas de transporte (sin respuesta) se reintentan.
func conReintentos[T any](ctx context.Context, cfg RetryConfig, fn func() (T, bool, error)) (T, int, error) {
	cfg = cfg.normalizar()
	var zero T
	var lastErr error
	backoff := cfg.Backoff

	for intento := 1; intento <= cfg.MaxIntentos; intento++ {
		result, definitivo, err := fn()
		if err == nil || definitivo {
			return result, intento, err
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, intento, ctx.Err()
		}
		if intento < cfg.MaxIntentos {
			select {
			case <-ctx.Done():
				return zero, intento, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				if backoff > cfg.MaxBackoff {
					backoff = cfg.MaxBackoff
				}
			}
		}
	}
	return zero, cfg.MaxIntentos, lastErr
}
