package handler

import (
	"strings"

	"bloodconnect/internal/donor/models"
	"bloodconnect/internal/donor/service"
	dErrors "bloodconnect/pkg/domain-errors"
)

type AddressRequest struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// ProfileRequest holds the fields shared by registration and update.
type ProfileRequest struct {
	FullName           string         `json:"fullName"`
	FatherHusbandName  *string        `json:"fatherHusbandName,omitempty"`
	Age                int            `json:"age"`
	Gender             string         `json:"gender"`
	BloodGroup         *string        `json:"bloodGroup,omitempty"`
	Phone              string         `json:"phone"`
	Email              string         `json:"email"`
	District           *string        `json:"district,omitempty"`
	Address            AddressRequest `json:"address"`
	TimesDonatedBefore *int           `json:"timesDonatedBefore,omitempty"`
	SourceOfInfo       *string        `json:"sourceOfInfo,omitempty"`
}

func (r *ProfileRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.FatherHusbandName = trimOptional(r.FatherHusbandName)
	r.District = trimOptional(r.District)
	r.SourceOfInfo = trimOptional(r.SourceOfInfo)
	if r.BloodGroup != nil {
		bg := strings.ToUpper(strings.TrimSpace(*r.BloodGroup))
		r.BloodGroup = &bg
		if bg == "" {
			r.BloodGroup = nil
		}
	}
}

func (r *ProfileRequest) validate() error {
	switch {
	case r.FullName == "":
		return dErrors.New(dErrors.CodeValidation, "fullName is required")
	case r.Phone == "":
		return dErrors.New(dErrors.CodeValidation, "phone is required")
	case r.Gender == "":
		return dErrors.New(dErrors.CodeValidation, "gender is required")
	case r.Email != "" && !strings.Contains(r.Email, "@"):
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}

func (r *ProfileRequest) toProfile() models.Profile {
	p := models.Profile{
		FullName:           r.FullName,
		FatherHusbandName:  r.FatherHusbandName,
		Age:                r.Age,
		Gender:             models.Gender(r.Gender),
		Phone:              r.Phone,
		Email:              r.Email,
		District:           r.District,
		TimesDonatedBefore: r.TimesDonatedBefore,
		SourceOfInfo:       r.SourceOfInfo,
		Address: models.Address{
			Line1:      strings.TrimSpace(r.Address.Line1),
			City:       strings.TrimSpace(r.Address.City),
			Province:   strings.TrimSpace(r.Address.Province),
			Country:    strings.TrimSpace(r.Address.Country),
			PostalCode: strings.TrimSpace(r.Address.PostalCode),
		},
	}
	if r.BloodGroup != nil {
		bg := models.BloodGroup(*r.BloodGroup)
		p.BloodGroup = &bg
	}
	return p
}

type RegisterDonorRequest struct {
	ProfileRequest
	NationalID string `json:"nationalId"`
}

func (r *RegisterDonorRequest) Validate() error {
	r.normalize()
	r.NationalID = strings.TrimSpace(r.NationalID)
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "nationalId is required")
	}
	return r.validate()
}

func (r *RegisterDonorRequest) ToCommand() service.RegisterCommand {
	return service.RegisterCommand{NationalID: r.NationalID, Profile: r.toProfile()}
}

type UpdateDonorRequest struct {
	ProfileRequest
}

func (r *UpdateDonorRequest) Validate() error {
	r.normalize()
	return r.validate()
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
