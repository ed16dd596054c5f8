package wearable

import (
	"github.com/brianvoe/gofakeit/v6"
)

const DefaultSyntheticRows = 100

// Row is one simulated day of device data.
type Row struct {
	UserID    int     `json:"user_id"`
	Steps     int     `json:"steps"`
	Calories  int     `json:"calories_burned"`
	Sleep     float64 `json:"sleep_duration"`
	HeartRate int     `json:"heart_rate"`
	Weight    float64 `json:"weight"`
}

// Synthesize generates n rows with user ids 1..n. Upper bounds are exclusive.
func Synthesize(n int, seed int64) []Row {
	if n <= 0 {
		n = DefaultSyntheticRows
	}

	faker := gofakeit.New(seed)
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			UserID:    i + 1,
			Steps:     faker.Number(3000, 9999),
			Calories:  faker.Number(150, 349),
			Sleep:     faker.Float64Range(6, 9),
			HeartRate: faker.Number(60, 99),
			Weight:    faker.Float64Range(50, 90),
		}
	}

	return rows
}

type Charts struct {
	Steps     []int `json:"steps"`
	HeartRate []int `json:"heart_rate"`
	Calories  []int `json:"calories_burned"`
}

func ChartSeries(rows []Row) Charts {
	c := Charts{
		Steps:     make([]int, len(rows)),
		HeartRate: make([]int, len(rows)),
		Calories:  make([]int, len(rows)),
	}
	for i, r := range rows {
		c.Steps[i] = r.Steps
		c.HeartRate[i] = r.HeartRate
		c.Calories[i] = r.Calories
	}
	return c
}
