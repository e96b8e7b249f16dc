package validation

import "github.com/yusufkecer/fitness-tracker-backend/internal/domain"

// Activity validates a merged activity payload: tag rules first, then the
// date and heart-rate cross checks on the fields that parsed.
func Activity(in domain.ActivityInput, today domain.Date) Errors {
	errs := Struct(in)

	if !errs.HasField("date") {
		if date, err := domain.ParseDate(in.Date); err == nil {
			errs.Append(ValidateDate("date", date, today))
		}
	}
	if !errs.HasField("average_heart_rate") && !errs.HasField("max_heart_rate") {
		errs.Append(ValidateHeartRates(in.AverageHeartRate, in.MaxHeartRate))
	}
	return errs
}

// Profile validates nested profile data and rejects birth dates in the future.
func Profile(prefix string, in *domain.ProfileInput, today domain.Date) Errors {
	if in == nil {
		return nil
	}
	var errs Errors
	for _, fe := range Struct(in) {
		fe.Field = prefix + fe.Field
		errs = append(errs, fe)
	}
	if in.DateOfBirth != nil && *in.DateOfBirth != "" && !errs.HasField(prefix+"date_of_birth") {
		if dob, err := domain.ParseDate(*in.DateOfBirth); err == nil && dob.After(today) {
			errs.Add(prefix+"date_of_birth", FutureDate, "Date of birth cannot be in the future.")
		}
	}
	return errs
}
