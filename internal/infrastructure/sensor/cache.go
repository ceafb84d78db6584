package sensor

import (
	"sync/atomic"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

// Cache хранит последнее показание датчика. Показание заменяется целиком,
// поля двух разных замеров не смешиваются.
type Cache struct {
	latest atomic.Pointer[entity.SensorReading]
}

// NewCache создаёт пустой кэш, отдающий резервное показание.
func NewCache() *Cache {
	return &Cache{}
}

// Store заменяет показание в кэше.
func (c *Cache) Store(r entity.SensorReading) {
	c.latest.Store(&r)
}

// Latest возвращает показание и признак того, что датчик уже отвечал.
func (c *Cache) Latest() (entity.SensorReading, bool) {
	r := c.latest.Load()
	if r == nil {
		return entity.SensorReading{}, false
	}
	return *r, true
}

// Current возвращает последнее или резервное показание.
func (c *Cache) Current() entity.SensorReading {
	if r, ok := c.Latest(); ok {
		return r
	}
	return entity.FallbackReading
}

var _ port.SensorSource = (*Cache)(nil)
