package onboarding

import (
	"strings"

	"loan-portal/internal/pkg/apperrors"
)

const (
	msgPersonalDetails  = "Please fill all personal details"
	msgEmploymentDetail = "Please fill all employment details"
	msgNextOfKinDetails = "Please fill all next of kin details"
)

const EmploymentEmployed = "employed"

// KYCProfile is the three-section know-your-customer questionnaire.
type KYCProfile struct {
	EducationLevel        string `json:"educationLevel"`
	County                string `json:"county"`
	EmploymentType        string `json:"employmentType"`
	MonthlyIncome         int64  `json:"monthlyIncome"`
	NextOfKinName         string `json:"nextOfKinName"`
	NextOfKinPhone        string `json:"nextOfKinPhone"`
	NextOfKinRelationship string `json:"nextOfKinRelationship"`
	Completed             bool   `json:"kycCompleted"`
}

// Validate checks the sections in questionnaire order and reports the first
// incomplete one.
func (k KYCProfile) Validate() error {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	if blank(k.EducationLevel) || blank(k.County) {
		return apperrors.NewValidationError("personal", msgPersonalDetails)
	}
	if blank(k.EmploymentType) || k.MonthlyIncome <= 0 {
		return apperrors.NewValidationError("employment", msgEmploymentDetail)
	}
	if blank(k.NextOfKinName) || blank(k.NextOfKinPhone) || blank(k.NextOfKinRelationship) {
		return apperrors.NewValidationError("nextOfKin", msgNextOfKinDetails)
	}
	return nil
}

// CompletedSections lists the indexes (0 personal, 1 employment, 2 next of
// kin) whose fields are all filled in.
func (k KYCProfile) CompletedSections() []int {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	var done []int
	if !blank(k.EducationLevel) && !blank(k.County) {
		done = append(done, 0)
	}
	if !blank(k.EmploymentType) && k.MonthlyIncome > 0 {
		done = append(done, 1)
	}
	if !blank(k.NextOfKinName) && !blank(k.NextOfKinPhone) && !blank(k.NextOfKinRelationship) {
		done = append(done, 2)
	}
	return done
}
