package crashlog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0x03801a2c", want: 0x3801a2c},
		{in: "0X7800000", want: 0x7800000},
		{in: "03801A2C", want: 0x3801a2c},
		{in: "  3801a2c\n", want: 0x3801a2c},
		{in: "0x", wantErr: true},
		{in: "", wantErr: true},
		{in: "0xzz", wantErr: true},
		{in: "0x1ffffffffffffffff", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseUserAddress(t *testing.T) {
	_, err := ParseUserAddress("0x37fffff")
	require.ErrorIs(t, err, ErrNotUserAddress)

	addr, err := ParseUserAddress("0x3800000")
	require.NoError(t, err)
	require.EqualValues(t, UserSpaceStart, addr)
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want []uint64
	}{
		{
			name: "stack trace",
			log: `Memory Permission error !
03801A2C
Stack trace:
  0x0380a100
  0x037fe000
  0x03801a2c
  0x07800040
Firmware build 1.1.2 id deadbeefcafe0000`,
			want: []uint64{0x3801a2c, 0x380a100, 0x7800040},
		},
		{
			name: "firmware only",
			log:  "Data abort exception at 0x00402c10\nPC 037fe000",
		},
		{
			name: "no addresses",
			log:  "no addresses here",
		},
		{
			name: "decimal tokens",
			log:  "boot 20240518 uptime 12345678 ms\nbattery 87654321",
		},
		{
			name: "register labels",
			log:  "PC: 3801234 LR=0380ABCD\nR0 0380ffff",
			want: []uint64{0x3801234, 0x380abcd},
		},
		{
			name: "windows line endings",
			log:  "Memory Permission error !\r\n03801A2C\r\n",
			want: []uint64{0x3801a2c},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Scan(tt.log)); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
