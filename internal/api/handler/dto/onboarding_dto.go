package dto

import "loan-portal/internal/domain/onboarding"

type KYCRequest struct {
	EducationLevel        string `json:"educationLevel"`
	County                string `json:"county"`
	EmploymentType        string `json:"employmentType"`
	MonthlyIncome         int64  `json:"monthlyIncome"`
	NextOfKinName         string `json:"nextOfKinName"`
	NextOfKinPhone        string `json:"nextOfKinPhone"`
	NextOfKinRelationship string `json:"nextOfKinRelationship"`
}

func (r KYCRequest) ToDomain() onboarding.KYCProfile {
	return onboarding.KYCProfile{
		EducationLevel:        r.EducationLevel,
		County:                r.County,
		EmploymentType:        r.EmploymentType,
		MonthlyIncome:         r.MonthlyIncome,
		NextOfKinName:         r.NextOfKinName,
		NextOfKinPhone:        r.NextOfKinPhone,
		NextOfKinRelationship: r.NextOfKinRelationship,
	}
}

type KYCResponse struct {
	KYCRequest
	Completed         bool  `json:"kycCompleted"`
	CompletedSections []int `json:"completedSections"`
}

func NewKYCResponse(k onboarding.KYCProfile) KYCResponse {
	sections := k.CompletedSections()
	if sections == nil {
		sections = []int{}
	}
	return KYCResponse{
		KYCRequest: KYCRequest{
			EducationLevel:        k.EducationLevel,
			County:                k.County,
			EmploymentType:        k.EmploymentType,
			MonthlyIncome:         k.MonthlyIncome,
			NextOfKinName:         k.NextOfKinName,
			NextOfKinPhone:        k.NextOfKinPhone,
			NextOfKinRelationship: k.NextOfKinRelationship,
		},
		Completed:         k.Completed,
		CompletedSections: sections,
	}
}

type DashboardResponse struct {
	Profile        ProfileResponse     `json:"profile"`
	FullName       string              `json:"fullName"`
	CreditScore    int                 `json:"creditScore"`
	CreditRating   string              `json:"creditRating"`
	EligibleAmount int64               `json:"eligibleAmount"`
	LoanStatus     string              `json:"loanStatus"`
	KYCCompleted   bool                `json:"kycCompleted"`
	Loan           *LoanRecordResponse `json:"loan,omitempty"`
}

func NewDashboardResponse(s onboarding.Summary) DashboardResponse {
	return DashboardResponse{
		Profile:        NewProfileResponse(s.Profile),
		FullName:       s.Profile.FullName(),
		CreditScore:    s.CreditScore,
		CreditRating:   s.CreditRating,
		EligibleAmount: s.EligibleAmount,
		LoanStatus:     s.LoanStatus,
		KYCCompleted:   s.KYCCompleted,
		Loan:           NewLoanRecordResponse(s.Loan),
	}
}
