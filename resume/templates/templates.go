// Package templates holds the canned resume templates a draft can be reset to.
package templates

import (
	"sort"
	"strings"

	"careerprep-backend/resume/model"
)

const (
	Modern    = "modern"
	Creative  = "creative"
	Executive = "executive"
)

var catalog = map[string]func() model.Document{
	Modern:    modernTemplate,
	Creative:  creativeTemplate,
	Executive: executiveTemplate,
}

// Get returns a fresh copy of the named template. Names are case-insensitive.
func Get(name string) (model.Document, bool) {
	build, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.Document{}, false
	}
	doc := build()
	doc.Normalize()
	return doc, true
}

// Names lists the available templates in a stable order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func modernTemplate() model.Document {
	return model.Document{
		PersonalInfo: model.PersonalInfo{
			Name:     "Alex Morgan",
			Email:    "alex.morgan@email.com",
			Phone:    "+1-555-201-3344",
			Location: "Seattle, WA",
			LinkedIn: "linkedin.com/in/alexmorgan",
			GitHub:   "github.com/alexmorgan",
		},
		Summary: "Full-stack developer focused on fast, accessible web products and pragmatic cloud architecture.",
		Skills:  []string{"TypeScript", "React", "Go", "PostgreSQL", "Kubernetes", "GraphQL"},
		Experience: []model.Experience{
			{
				Company:      "Cloudline",
				Position:     "Full-Stack Engineer",
				StartDate:    "2020-03",
				EndDate:      "Present",
				Description:  "Owns the billing and onboarding surfaces.",
				Achievements: []string{"Migrated the frontend to React 18", "Halved infrastructure cost with autoscaling"},
			},
		},
		Education: []model.Education{
			{Institution: "University of Washington", Degree: "BSc", Field: "Computer Science", StartDate: "2015-09", EndDate: "2019-06"},
		},
		Projects: []model.Project{
			{Name: "Open Metrics Board", Description: "Self-hosted dashboard for service health.", Technologies: []string{"Go", "React"}, URL: "https://github.com/alexmorgan/omb"},
		},
	}
}

func creativeTemplate() model.Document {
	return model.Document{
		PersonalInfo: model.PersonalInfo{
			Name:     "Sarah Johnson",
			Email:    "sarah.johnson@email.com",
			Phone:    "+1-555-987-6543",
			Location: "Austin, TX",
			Website:  "https://sarahjohnson.design",
		},
		Summary: "Creative product designer blending visual storytelling with user research to craft memorable digital experiences.",
		Skills:  []string{"Figma", "Adobe Creative Suite", "Prototyping", "User Research", "Design Systems", "Motion Design"},
		Experience: []model.Experience{
			{
				Company:      "Creative Studio Co.",
				Position:     "Senior Product Designer",
				StartDate:    "2019-05",
				EndDate:      "Present",
				Description:  "Leads design for consumer mobile apps.",
				Achievements: []string{"Redesigned onboarding, lifting activation by 25%", "Built the studio-wide design system"},
			},
			{
				Company:      "Pixel Agency",
				Position:     "Visual Designer",
				StartDate:    "2016-08",
				EndDate:      "2019-04",
				Achievements: []string{"Delivered brand identities for 30+ clients"},
			},
		},
		Education: []model.Education{
			{Institution: "Rhode Island School of Design", Degree: "BFA", Field: "Graphic Design", StartDate: "2012-09", EndDate: "2016-05"},
		},
		Hobbies: []string{"Illustration", "Street Photography"},
	}
}

func executiveTemplate() model.Document {
	return model.Document{
		PersonalInfo: model.PersonalInfo{
			Name:     "Michael Chen",
			Email:    "michael.chen@email.com",
			Phone:    "+1-555-444-1200",
			Location: "New York, NY",
			LinkedIn: "linkedin.com/in/michaelchen",
		},
		Summary: "Technology executive with 15 years scaling engineering organisations and delivering enterprise platforms.",
		Skills:  []string{"Strategic Planning", "Organisational Leadership", "P&L Management", "Cloud Strategy", "M&A Integration"},
		Experience: []model.Experience{
			{
				Company:      "Global Finance Group",
				Position:     "Chief Technology Officer",
				StartDate:    "2017-01",
				EndDate:      "Present",
				Description:  "Leads a 250-person engineering and data organisation.",
				Achievements: []string{"Led the cloud migration of 40 core systems", "Grew engineering headcount threefold"},
			},
		},
		Education: []model.Education{
			{Institution: "Columbia Business School", Degree: "MBA", StartDate: "2008-09", EndDate: "2010-05"},
			{Institution: "Cornell University", Degree: "BSc", Field: "Electrical Engineering", StartDate: "2002-09", EndDate: "2006-05"},
		},
		Certifications: []model.Certification{
			{Name: "Certified Information Systems Security Professional", Issuer: "ISC2", Date: "2015-06"},
		},
	}
}
