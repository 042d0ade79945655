package templates

import "careerprep-backend/resume/model"

// MockResumeData is what an upload parse falls back to when no text can be
// extracted from the file, and what the "mock" parse mode always returns.
func MockResumeData() model.Document {
	doc := model.Document{
		PersonalInfo: model.PersonalInfo{
			Name:     "John Doe",
			Email:    "john.doe@email.com",
			Phone:    "+1-555-123-4567",
			Location: "San Francisco, CA",
			LinkedIn: "linkedin.com/in/johndoe",
			GitHub:   "github.com/johndoe",
		},
		Summary: "Experienced software engineer with a strong background in full-stack development, cloud infrastructure and team leadership.",
		Skills: []string{
			"JavaScript", "React", "Node.js", "Python",
			"SQL", "AWS", "Docker", "Git",
		},
		Experience: []model.Experience{
			{
				Company:     "Tech Corp",
				Position:    "Senior Software Engineer",
				StartDate:   "2021-01",
				EndDate:     "Present",
				Description: "Lead developer for the customer platform team.",
				Achievements: []string{
					"Cut page load time by 35%",
					"Introduced automated end-to-end testing",
				},
			},
			{
				Company:     "StartupXYZ",
				Position:    "Software Engineer",
				StartDate:   "2018-06",
				EndDate:     "2020-12",
				Description: "Built and maintained the core web application.",
				Achievements: []string{
					"Shipped the payments integration",
				},
			},
		},
		Education: []model.Education{
			{
				Institution: "University of California",
				Degree:      "Bachelor of Science",
				Field:       "Computer Science",
				StartDate:   "2014-09",
				EndDate:     "2018-05",
				GPA:         "3.7",
			},
		},
	}
	doc.Normalize()
	return doc
}
