package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestJSONCodecRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)
	assert.Equal(t, "json", codec.Name())
}

func TestJSONCodec(t *testing.T) {
	var c jsonCodec

	t.Run("report keeps absent values", func(t *testing.T) {
		avg := 9.0
		in := &StudentReport{
			Nre:            "1001",
			Trimesters:     map[int32]float64{1: 6, 2: 0},
			SummaryAverage: &avg,
			ModuleFinals:   map[string]*float64{"pce": nil},
		}

		data, err := c.Marshal(in)
		require.NoError(t, err)

		var out StudentReport
		require.NoError(t, c.Unmarshal(data, &out))
		assert.Equal(t, 6.0, out.Trimesters[1])
		assert.Equal(t, 9.0, *out.SummaryAverage)
		v, ok := out.ModuleFinals["pce"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("service date survives", func(t *testing.T) {
		day := time.Date(2025, 10, 1, 12, 30, 0, 0, time.UTC)
		data, err := c.Marshal(&Service{Id: "A", Name: "Servicio A", Date: timestamppb.New(day), Trimester: 1})
		require.NoError(t, err)

		var out Service
		require.NoError(t, c.Unmarshal(data, &out))
		require.NotNil(t, out.Date)
		assert.True(t, day.Equal(out.Date.AsTime()))
	})

	t.Run("unset date stays nil", func(t *testing.T) {
		data, err := c.Marshal(&Service{Id: "A"})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "date")

		var out Service
		require.NoError(t, c.Unmarshal(data, &out))
		assert.Nil(t, out.Date)
	})

	t.Run("proto messages use protojson", func(t *testing.T) {
		ts := timestamppb.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		data, err := c.Marshal(ts)
		require.NoError(t, err)
		assert.JSONEq(t, `"2026-03-01T12:00:00Z"`, string(data))

		var out timestamppb.Timestamp
		require.NoError(t, c.Unmarshal(data, &out))
		assert.Equal(t, ts.AsTime(), out.AsTime())
	})

	t.Run("null grade clears", func(t *testing.T) {
		var req SetTheoreticalGradeRequest
		require.NoError(t, c.Unmarshal([]byte(`{"nre":"1001","key":"exTeorico1","grade":null}`), &req))
		assert.Nil(t, req.Grade)
	})

	t.Run("empty payload", func(t *testing.T) {
		var e Empty
		assert.NoError(t, c.Unmarshal(nil, &e))
	})

	t.Run("malformed payload", func(t *testing.T) {
		var req StudentRequest
		err := c.Unmarshal([]byte(`{"nre":`), &req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "json codec unmarshal")
	})
}
