package community

type Reward struct {
	Place int    `json:"place"`
	Prize string `json:"prize"`
}

type Challenge struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartDay    string   `json:"startDay"`
	EndDay      string   `json:"endDay"`
	Rewards     []Reward `json:"rewards"`
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta"`
}

type Highlights struct {
	Challenge Challenge `json:"challenge"`
	Stats     []Metric  `json:"stats"`
}

func CurrentHighlights() Highlights {
	return Highlights{
		Challenge: Challenge{
			Title: "Step Count Hierarchy",
			Description: "Compete with your friends to see who takes the most steps in a week! " +
				"The top 3 participants receive exciting rewards, including gift cards, fitness equipment, " +
				"or a free subscription to our AI Fitness Coach.",
			StartDay: "Monday",
			EndDay:   "Sunday",
			Rewards: []Reward{
				{Place: 1, Prize: "$50 Gift Card"},
				{Place: 2, Prize: "Resistance Band Set"},
				{Place: 3, Prize: "Fitness Water Bottle"},
			},
		},
		Stats: []Metric{
			{Label: "Total Steps Taken This Week", Value: "5,678,432", Delta: "12% Increase"},
			{Label: "Active Participants", Value: "3,245", Delta: "20% Increase"},
		},
	}
}
