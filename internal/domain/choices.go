package domain

import "sort"

type ActivityType string

const (
	ActivityRunning       ActivityType = "RUNNING"
	ActivityCycling       ActivityType = "CYCLING"
	ActivitySwimming      ActivityType = "SWIMMING"
	ActivityWalking       ActivityType = "WALKING"
	ActivityWeightlifting ActivityType = "WEIGHTLIFTING"
	ActivityYoga          ActivityType = "YOGA"
	ActivityHIIT          ActivityType = "HIIT"
	ActivityCrossFit      ActivityType = "CROSSFIT"
	ActivityBoxing        ActivityType = "BOXING"
	ActivityRowing        ActivityType = "ROWING"
	ActivityPilates       ActivityType = "PILATES"
	ActivityDancing       ActivityType = "DANCING"
	ActivityHiking        ActivityType = "HIKING"
	ActivityBasketball    ActivityType = "BASKETBALL"
	ActivityFootball      ActivityType = "FOOTBALL"
	ActivityTennis        ActivityType = "TENNIS"
	ActivityGolf          ActivityType = "GOLF"
	ActivityOther         ActivityType = "OTHER"
)

var activityTypeLabels = map[ActivityType]string{
	ActivityRunning:       "Running",
	ActivityCycling:       "Cycling",
	ActivitySwimming:      "Swimming",
	ActivityWalking:       "Walking",
	ActivityWeightlifting: "Weightlifting",
	ActivityYoga:          "Yoga",
	ActivityHIIT:          "HIIT",
	ActivityCrossFit:      "CrossFit",
	ActivityBoxing:        "Boxing",
	ActivityRowing:        "Rowing",
	ActivityPilates:       "Pilates",
	ActivityDancing:       "Dancing",
	ActivityHiking:        "Hiking",
	ActivityBasketball:    "Basketball",
	ActivityFootball:      "Football",
	ActivityTennis:        "Tennis",
	ActivityGolf:          "Golf",
	ActivityOther:         "Other",
}

func (t ActivityType) Valid() bool {
	_, ok := activityTypeLabels[t]
	return ok
}

// Display returns the human-readable label, or the raw code for unknown values.
func (t ActivityType) Display() string {
	if label, ok := activityTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// ActivityTypes lists every known type in code order.
func ActivityTypes() []ActivityType {
	out := make([]ActivityType, 0, len(activityTypeLabels))
	for t := range activityTypeLabels {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type Intensity string

const (
	IntensityLow      Intensity = "LOW"
	IntensityModerate Intensity = "MODERATE"
	IntensityHigh     Intensity = "HIGH"
	IntensityExtreme  Intensity = "EXTREME"
)

var intensityLabels = map[Intensity]string{
	IntensityLow:      "Low",
	IntensityModerate: "Moderate",
	IntensityHigh:     "High",
	IntensityExtreme:  "Extreme",
}

func (i Intensity) Valid() bool {
	_, ok := intensityLabels[i]
	return ok
}

func (i Intensity) Display() string {
	if label, ok := intensityLabels[i]; ok {
		return label
	}
	return string(i)
}

type Gender string

const (
	GenderMale           Gender = "M"
	GenderFemale         Gender = "F"
	GenderOther          Gender = "O"
	GenderPreferNotToSay Gender = "N"
)

var genderLabels = map[Gender]string{
	GenderMale:           "Male",
	GenderFemale:         "Female",
	GenderOther:          "Other",
	GenderPreferNotToSay: "Prefer not to say",
}

func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

func (g Gender) Display() string {
	if label, ok := genderLabels[g]; ok {
		return label
	}
	return string(g)
}
