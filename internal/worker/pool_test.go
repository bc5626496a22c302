package worker

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiguienteAccion(t *testing.T) {
	boom := errors.New("smtp down")

	assert.Equal(t, accionListo, siguienteAccion(Job{Attempts: 1}, nil))
	assert.Equal(t, accionReintentar, siguienteAccion(Job{Attempts: 1}, boom))
	assert.Equal(t, accionReintentar, siguienteAccion(Job{Attempts: MaxAttempts - 1}, boom))
	assert.Equal(t, accionDLQ, siguienteAccion(Job{Attempts: MaxAttempts}, boom))
}

func TestJobEnvelope_RoundTripKeepsPayload(t *testing.T) {
	payload, err := json.Marshal(ReportePayload{Desde: "2024-05-01", Hasta: "2024-05-01", Email: "dueno@tienda.mx"})
	require.NoError(t, err)
	raw, err := json.Marshal(Job{Type: QueueReporte, Payload: payload, Attempts: 2})
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, QueueReporte, job.Type)
	assert.Equal(t, 2, job.Attempts)

	var got ReportePayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, "dueno@tienda.mx", got.Email)
}

func TestDiaCerrado(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)

	t.Run("same day", func(t *testing.T) {
		_, ok := diaCerrado(time.Date(2024, 5, 1, 9, 0, 0, 0, loc), time.Date(2024, 5, 1, 23, 59, 0, 0, loc))
		assert.False(t, ok)
	})

	t.Run("midnight rollover", func(t *testing.T) {
		dia, ok := diaCerrado(time.Date(2024, 5, 1, 23, 58, 0, 0, loc), time.Date(2024, 5, 2, 0, 3, 0, 0, loc))
		require.True(t, ok)
		assert.Equal(t, "2024-05-01", dia)
	})

	t.Run("month boundary", func(t *testing.T) {
		dia, ok := diaCerrado(time.Date(2024, 4, 30, 23, 0, 0, 0, loc), time.Date(2024, 5, 1, 0, 1, 0, 0, loc))
		require.True(t, ok)
		assert.Equal(t, "2024-04-30", dia)
	})

	t.Run("clock going back is ignored", func(t *testing.T) {
		_, ok := diaCerrado(time.Date(2024, 5, 2, 0, 1, 0, 0, loc), time.Date(2024, 5, 1, 23, 59, 0, 0, loc))
		assert.False(t, ok)
	})
}
