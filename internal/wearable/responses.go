package wearable

// Activity is the first logged activity of the day.
type Activity struct {
	ActivityID int64   `json:"activityId"`
	Name       string  `json:"name"`
	Calories   int     `json:"calories"`
	Steps      int     `json:"steps"`
	Distance   float64 `json:"distance"`
	Duration   int64   `json:"duration"`
	StartTime  string  `json:"startTime"`
}

type ActivitySummary struct {
	Steps             int `json:"steps"`
	CaloriesOut       int `json:"caloriesOut"`
	ActivityCalories  int `json:"activityCalories"`
	RestingHeartRate  int `json:"restingHeartRate"`
	SedentaryMinutes  int `json:"sedentaryMinutes"`
	VeryActiveMinutes int `json:"veryActiveMinutes"`
}

type DailyActivity struct {
	Activity *Activity       `json:"activity"`
	Summary  ActivitySummary `json:"summary"`
}

type dailyActivityResponse struct {
	Activities []Activity      `json:"activities"`
	Summary    ActivitySummary `json:"summary"`
}

type HeartRateZone struct {
	Name        string  `json:"name"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Minutes     int     `json:"minutes"`
	CaloriesOut float64 `json:"caloriesOut"`
}

type HeartRate struct {
	DateTime string `json:"dateTime"`
	Value    struct {
		RestingHeartRate int             `json:"restingHeartRate"`
		HeartRateZones   []HeartRateZone `json:"heartRateZones"`
	} `json:"value"`
}

type heartRateResponse struct {
	ActivitiesHeart []HeartRate `json:"activities-heart"`
}

type Profile struct {
	FullName    string  `json:"fullName"`
	DisplayName string  `json:"displayName"`
	Avatar150   string  `json:"avatar150"`
	Age         int     `json:"age"`
	Weight      float64 `json:"weight"`
	Height      float64 `json:"height"`
	Timezone    string  `json:"timezone"`
}

type profileResponse struct {
	User *Profile `json:"user"`
}
