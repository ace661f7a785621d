package maturity

import (
	"testing"

	"AtxEngine/internal/domain/models"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		name   string
		trades int
		days   int
		want   models.MaturityBand
	}{
		{"fresh account", 0, 0, models.MaturityInitial},
		{"few trades few days", 10, 5, models.MaturityInitial},
		{"developing", 25, 12, models.MaturityDeveloping},
		{"established", 150, 60, models.MaturityEstablished},
		{"many trades few days", 500, 3, models.MaturityInitial},
		{"many trades developing days", 500, 20, models.MaturityDeveloping},
		{"many days few trades", 15, 100, models.MaturityInitial},
		{"trades at boundary", EstablishedTrades, EstablishedDays, models.MaturityEstablished},
	}
	for _, tc := range cases {
		got := Classify(tc.trades, tc.days)
		if got.Band != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got.Band, tc.want)
		}
		if got.Label == "" || got.Memo == "" {
			t.Fatalf("%s: label and memo must be set", tc.name)
		}
	}
}

func TestBandOrdering(t *testing.T) {
	if !models.MaturityEstablished.AtLeast(models.MaturityDeveloping) {
		t.Fatal("established must rank above developing")
	}
	if models.MaturityInitial.AtLeast(models.MaturityDeveloping) {
		t.Fatal("initial must rank below developing")
	}
}
