package stooq

import (
	"testing"
)

func TestParseDailyCSV(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int // Expected number of bars
		wantErr bool
	}{
		{
			name: "valid data with header",
			body: "Date,Open,High,Low,Close,Volume\n" +
				"2026-07-01,5440.12,5470.50,5431.00,5460.30,2100000\n" +
				"2026-07-02,5461.00,5480.00,5450.10,5477.90,1980000\n",
			want:    2,
			wantErr: false,
		},
		{
			name: "index payload without volume",
			body: "Date,Open,High,Low,Close\n" +
				"2026-07-01,17.10,18.40,16.90,17.80\n",
			want:    1,
			wantErr: false,
		},
		{
			name:    "empty body",
			body:    "",
			want:    0,
			wantErr: false,
		},
		{
			name:    "no data marker",
			body:    "No data",
			want:    0,
			wantErr: false,
		},
		{
			name: "row with bad date skipped",
			body: "Date,Open,High,Low,Close,Volume\n" +
				"20260701,1,1,1,1,1\n" +
				"2026-07-02,5461.00,5480.00,5450.10,5477.90,1980000\n",
			want:    1,
			wantErr: false,
		},
		{
			name: "row with zero close skipped",
			body: "Date,Open,High,Low,Close,Volume\n" +
				"2026-07-01,5440.12,5470.50,5431.00,0,2100000\n",
			want:    0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDailyCSV(tt.body)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDailyCSV() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(got) != tt.want {
				t.Errorf("parseDailyCSV() got %d bars, want %d", len(got), tt.want)
			}

			// Bars must come out oldest first with positive closes
			for i, bar := range got {
				if bar.Date.IsZero() {
					t.Error("parseDailyCSV() Date is zero")
				}
				if bar.Close <= 0 {
					t.Error("parseDailyCSV() Close is not positive")
				}
				if i > 0 && bar.Date.Before(got[i-1].Date) {
					t.Error("parseDailyCSV() bars not in ascending date order")
				}
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "123.45", 123.45},
		{"integer", "123", 123},
		{"padded", " 17.8 ", 17.8},
		{"invalid", "abc", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat(tt.input); got != tt.want {
				t.Errorf("toFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
