package seed

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

//go:embed data/*.csv
var dataFS embed.FS

type Talent struct {
	Name    string
	Profile *domain.VAProfile
}

// TalentEmail derives the login of a seeded talent from its display name.
func TalentEmail(name string, domainName string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "")) + "@" + domainName
}

// readRecords reads a csv file into header-keyed rows.
func readRecords(name string) ([]map[string]string, error) {
	file, err := dataFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = value
		}
		records = append(records, record)
	}

	return records, nil
}

func parseFloat(record map[string]string, key string) (*float64, error) {
	v, err := strconv.ParseFloat(record[key], 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

// parseSkills reads "name:band|name:band". The band is optional.
func parseSkills(s string) []domain.VASkill {
	var skills []domain.VASkill
	for _, item := range strings.Split(s, "|") {
		if item == "" {
			continue
		}
		name, band, ok := strings.Cut(item, ":")
		skill := domain.VASkill{SkillName: strings.TrimSpace(name)}
		if ok {
			band = strings.TrimSpace(band)
			skill.YearsExperience = &band
		}
		skills = append(skills, skill)
	}
	return skills
}

func LoadTalents() ([]Talent, error) {
	records, err := readRecords("data/talents.csv")
	if err != nil {
		return nil, err
	}

	talents := make([]Talent, 0, len(records))
	for _, record := range records {
		hourly, err := parseFloat(record, "hourly_rate")
		if err != nil {
			return nil, fmt.Errorf("talent %s: %w", record["name"], err)
		}
		monthly, err := parseFloat(record, "monthly_salary")
		if err != nil {
			return nil, fmt.Errorf("talent %s: %w", record["name"], err)
		}
		idProof, err := strconv.ParseInt(record["id_proof_score"], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("talent %s: id_proof_score: %w", record["name"], err)
		}

		headline := record["headline"]
		bio := record["bio"]
		education := record["education"]
		lastActive := record["last_active"]
		availability := record["availability"]

		talents = append(talents, Talent{
			Name: record["name"],
			Profile: &domain.VAProfile{
				Headline:      &headline,
				Bio:           &bio,
				HourlyRate:    hourly,
				MonthlySalary: monthly,
				IDProofScore:  int32(idProof),
				Education:     &education,
				LastActive:    &lastActive,
				Availability:  &availability,
				Skills:        parseSkills(record["skills"]),
			},
		})
	}

	return talents, nil
}

func LoadJobs() ([]*domain.Job, error) {
	records, err := readRecords("data/jobs.csv")
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(records))
	for _, record := range records {
		salaryMin, err := parseFloat(record, "salary_min")
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", record["id"], err)
		}
		salaryMax, err := parseFloat(record, "salary_max")
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", record["id"], err)
		}

		jobType := record["job_type"]
		experience := demoJobExperience

		job := &domain.Job{
			ID:              record["id"],
			Title:           record["title"],
			Description:     record["description"],
			SalaryMin:       salaryMin,
			SalaryMax:       salaryMax,
			JobType:         &jobType,
			ExperienceLevel: &experience,
			Status:          domain.JobStatusApproved,
			IsFeatured:      record["is_featured"] == "1",
		}
		if record["skills"] != "" {
			job.Skills = strings.Split(record["skills"], "|")
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}
