package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

func TestDecode(t *testing.T) {
	input := "Code, Description ,status,reference_date,phone,notes\n" +
		"1,Acme,Activo,01/02/2024,555-1234,vip\n" +
		" 2 ,Globex,rojo,,,\n"

	got, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Customer{Code: 1, Description: "Acme", Status: "Activo", ReferenceDate: "01/02/2024", Phone: "555-1234"}, got[0])
	assert.Equal(t, domain.Customer{Code: 2, Description: "Globex", Status: "rojo"}, got[1])
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeBadCode(t *testing.T) {
	_, err := Decode(strings.NewReader("code,description\nabc,Acme\n"))

	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	e := &due.Enricher{Now: func() time.Time { return time.Date(2024, time.February, 7, 0, 0, 0, 0, time.UTC) }}
	records := e.EnrichAll([]domain.Customer{
		{Code: 1, Description: "Acme", Status: "Activo", ReferenceDate: "01/02/2024", Phone: "555-1234"},
	})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "code,description,status,reference_date,phone,due_date,remaining_days,due_status", lines[0])
	assert.Equal(t, "1,Acme,Activo,01/02/2024,555-1234,09/02/2024,2,Vence en 2 días", lines[1])
}

func TestEncodeEmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))

	assert.Equal(t, "code,description,status,reference_date,phone,due_date,remaining_days,due_status\n", buf.String())
}

func TestRoundTripThroughDecode(t *testing.T) {
	e := &due.Enricher{Now: time.Now}
	in := []domain.Customer{{Code: 5, Description: "Umbrella, Corp", Status: "especial", ReferenceDate: "03/03/2024"}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, e.EnrichAll(in)))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
