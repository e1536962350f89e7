package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Maria", "Jose", "Ana", "Mark", "Grace", "John", "Kristine", "Paolo", "Joy", "Carlo",
	"Liza", "Miguel", "Camille", "Rafael", "Bea", "Nico", "Patricia", "Luis", "Andrea", "Ramon",
}
var lastNames = []string{
	"Santos", "Reyes", "Cruz", "Bautista", "Garcia", "Mendoza", "Torres", "Flores", "Villanueva", "Ramos",
}

var headlines = []string{
	"Executive Assistant", "Customer Support Specialist", "Social Media Manager",
	"Bookkeeper", "Lead Generation Specialist", "Shopify Store Manager", "Graphic Designer",
}

var skills = []string{
	"Email Management", "Calendar Management", "Customer Service", "Data Entry",
	"Canva", "QuickBooks", "Shopify", "Facebook Ads", "Copywriting", "Cold Calling",
}

var bands = []string{"0 - 1 year", "1 - 2 years", "2 - 5 years", "5+ years"}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

// GenerateEmailFromName lowercases the name, drops spaces and appends a few digits.
func GenerateEmailFromName(name string, emailDomainName string) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

// GenerateRandomVA builds an approved va account with a filled in profile.
func GenerateRandomVA(password string, emailDomainName string) (*domain.User, *domain.VAProfile, error) {
	name := GenerateRandomName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Role:         domain.RoleVA,
		Name:         name,
		Email:        GenerateEmailFromName(name, emailDomainName),
		PasswordHash: string(passwordHash),
		Status:       domain.UserStatusApproved,
	}

	headline := headlines[rand.Intn(len(headlines))]
	bio := fmt.Sprintf("%s with hands-on experience supporting remote teams.", headline)
	hourly := float64(rand.Intn(12) + 4)
	monthly := hourly * 160
	availability := "full-time work (8 hours/day)"

	profile := &domain.VAProfile{
		Headline:      &headline,
		Bio:           &bio,
		HourlyRate:    &hourly,
		MonthlySalary: &monthly,
		Availability:  &availability,
		IDProofScore:  int32(rand.Intn(41) + 60),
	}

	for _, i := range rand.Perm(len(skills))[:rand.Intn(4)+1] {
		band := bands[rand.Intn(len(bands))]
		profile.Skills = append(profile.Skills, domain.VASkill{SkillName: skills[i], YearsExperience: &band})
	}

	return user, profile, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
