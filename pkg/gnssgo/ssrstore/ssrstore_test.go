package ssrstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

func TestIngestLastArrivingRecordWinsPerKind(t *testing.T) {
	s := New()
	first := &rtcm.SSROrbitClockMessage{Header: rtcm.SSRHeader{MessageType: 1057, Epoch: 100, IODSSR: 1}}
	second := &rtcm.SSROrbitClockMessage{Header: rtcm.SSRHeader{MessageType: 1057, Epoch: 100, IODSSR: 2}}

	require.NoError(t, s.Ingest(1057, first))
	require.NoError(t, s.Ingest(1057, second))

	epoch, ok := s.Get(100)
	require.True(t, ok)
	b := epoch.Bucket(rtcm.GPS)
	require.NotNil(t, b.Orbit)
	require.Equal(t, uint8(2), b.Orbit.Header.IODSSR)
}

func TestNearestIonoIndependentOfConstellationEpochs(t *testing.T) {
	s := New()
	s.Ingest(1057, &rtcm.SSROrbitClockMessage{Header: rtcm.SSRHeader{MessageType: 1057, Epoch: 500}})

	vtec := &rtcm.VtecMessage{Header: rtcm.VtecHeader{Epoch: 300}}
	s.PutVtec(300, vtec)

	got, ok := s.NearestIono(290)
	require.True(t, ok)
	require.Same(t, vtec, got)
}

func TestEpochsReturnsAscendingKeys(t *testing.T) {
	s := New()
	s.Ingest(1057, &rtcm.SSROrbitClockMessage{Header: rtcm.SSRHeader{MessageType: 1057, Epoch: 200}})
	s.Ingest(1057, &rtcm.SSROrbitClockMessage{Header: rtcm.SSRHeader{MessageType: 1057, Epoch: 100}})

	require.Equal(t, []uint32{100, 200}, s.Epochs())
}
