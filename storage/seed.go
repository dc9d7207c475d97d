package storage

import (
	"errors"

	"skillswap-server/models"

	"gorm.io/gorm"
)

type seedSkill struct {
	Name        string
	Category    string
	Description string
	Aliases     []string
	Tags        []string
	Level       string
}

var initialSkills = []seedSkill{
	{Name: "JavaScript", Category: "Programming Languages", Description: "Popular programming language for web development", Aliases: []string{"JS"}, Tags: []string{"frontend", "backend", "web"}, Level: "intermediate"},
	{Name: "Python", Category: "Programming Languages", Description: "Versatile programming language for data science, web development, and automation", Aliases: []string{"Python3"}, Tags: []string{"data-science", "backend", "automation"}, Level: "intermediate"},
	{Name: "Java", Category: "Programming Languages", Description: "Object-oriented programming language for enterprise applications", Tags: []string{"enterprise", "backend"}, Level: "intermediate"},
	{Name: "TypeScript", Category: "Programming Languages", Description: "Typed superset of JavaScript", Aliases: []string{"TS"}, Tags: []string{"frontend", "backend", "web"}, Level: "intermediate"},
	{Name: "C++", Category: "Programming Languages", Description: "High-performance programming language", Aliases: []string{"CPP"}, Tags: []string{"systems", "performance"}, Level: "advanced"},
	{Name: "Go", Category: "Programming Languages", Description: "Modern programming language developed by Google", Aliases: []string{"Golang"}, Tags: []string{"backend", "google"}, Level: "intermediate"},
	{Name: "Rust", Category: "Programming Languages", Description: "Systems programming language focused on safety and performance", Tags: []string{"systems", "performance", "safety"}, Level: "advanced"},
	{Name: "PHP", Category: "Programming Languages", Description: "Server-side scripting language for web development", Tags: []string{"backend", "web"}, Level: "intermediate"},
	{Name: "Ruby", Category: "Programming Languages", Description: "Dynamic programming language with elegant syntax", Tags: []string{"backend", "web"}, Level: "intermediate"},
	{Name: "React", Category: "Web Development", Description: "JavaScript library for building user interfaces", Aliases: []string{"React.js", "ReactJS"}, Tags: []string{"frontend", "javascript", "spa"}, Level: "intermediate"},
	{Name: "Vue.js", Category: "Web Development", Description: "Progressive JavaScript framework", Aliases: []string{"Vue", "VueJS"}, Tags: []string{"frontend", "javascript", "spa"}, Level: "intermediate"},
	{Name: "Angular", Category: "Web Development", Description: "TypeScript-based web application framework", Aliases: []string{"AngularJS"}, Tags: []string{"frontend", "typescript", "spa"}, Level: "intermediate"},
	{Name: "Node.js", Category: "Web Development", Description: "JavaScript runtime for server-side development", Aliases: []string{"Node", "NodeJS"}, Tags: []string{"backend", "javascript"}, Level: "intermediate"},
	{Name: "Express.js", Category: "Web Development", Description: "Web framework for Node.js", Aliases: []string{"Express"}, Tags: []string{"backend", "nodejs", "api"}, Level: "intermediate"},
	{Name: "Next.js", Category: "Web Development", Description: "React framework for production", Aliases: []string{"NextJS"}, Tags: []string{"frontend", "react", "ssr"}, Level: "intermediate"},
	{Name: "HTML", Category: "Web Development", Description: "Markup language for creating web pages", Aliases: []string{"HTML5"}, Tags: []string{"frontend", "markup"}, Level: "beginner"},
	{Name: "CSS", Category: "Web Development", Description: "Stylesheet language for describing presentation", Aliases: []string{"CSS3"}, Tags: []string{"frontend", "styling"}, Level: "beginner"},
	{Name: "Tailwind CSS", Category: "Web Development", Description: "Utility-first CSS framework", Aliases: []string{"Tailwind"}, Tags: []string{"frontend", "css", "framework"}, Level: "intermediate"},
	{Name: "GraphQL", Category: "Web Development", Description: "Query language for APIs", Tags: []string{"api", "query"}, Level: "intermediate"},
	{Name: "REST API", Category: "Web Development", Description: "Architectural style for web services", Aliases: []string{"RESTful API"}, Tags: []string{"api", "web-services"}, Level: "intermediate"},
	{Name: "React Native", Category: "Mobile Development", Description: "Framework for building native mobile apps using React", Aliases: []string{"RN"}, Tags: []string{"mobile", "react", "cross-platform"}, Level: "intermediate"},
	{Name: "Flutter", Category: "Mobile Development", Description: "Google's UI toolkit for building mobile apps", Tags: []string{"mobile", "dart", "cross-platform"}, Level: "intermediate"},
	{Name: "Swift", Category: "Mobile Development", Description: "Programming language for iOS development", Tags: []string{"ios", "apple"}, Level: "intermediate"},
	{Name: "Kotlin", Category: "Mobile Development", Description: "Modern programming language for Android development", Tags: []string{"android", "google"}, Level: "intermediate"},
	{Name: "Pandas", Category: "Data Science", Description: "Python library for data manipulation and analysis", Tags: []string{"python", "data-analysis"}, Level: "intermediate"},
	{Name: "NumPy", Category: "Data Science", Description: "Python library for numerical computing", Tags: []string{"python", "numerical"}, Level: "intermediate"},
	{Name: "R", Category: "Data Science", Description: "Programming language for statistical computing", Tags: []string{"statistics", "analysis"}, Level: "intermediate"},
	{Name: "SQL", Category: "Database", Description: "Language for managing relational databases", Tags: []string{"database", "query"}, Level: "intermediate"},
	{Name: "TensorFlow", Category: "Machine Learning", Description: "Open-source machine learning framework", Tags: []string{"ml", "google"}, Level: "advanced"},
	{Name: "PyTorch", Category: "Machine Learning", Description: "Machine learning library for Python", Tags: []string{"ml", "python"}, Level: "advanced"},
	{Name: "Scikit-learn", Category: "Machine Learning", Description: "Machine learning library for Python", Aliases: []string{"sklearn"}, Tags: []string{"ml", "python"}, Level: "intermediate"},
	{Name: "Docker", Category: "DevOps", Description: "Platform for containerizing applications", Tags: []string{"containers", "deployment"}, Level: "intermediate"},
	{Name: "Kubernetes", Category: "DevOps", Description: "Container orchestration platform", Aliases: []string{"K8s"}, Tags: []string{"containers", "orchestration"}, Level: "advanced"},
	{Name: "Jenkins", Category: "DevOps", Description: "Automation server for CI/CD", Tags: []string{"ci-cd", "automation"}, Level: "intermediate"},
	{Name: "Terraform", Category: "DevOps", Description: "Infrastructure as code tool", Tags: []string{"iac", "infrastructure"}, Level: "intermediate"},
	{Name: "Git", Category: "DevOps", Description: "Distributed version control system", Tags: []string{"version-control"}, Level: "intermediate"},
	{Name: "AWS", Category: "Cloud Computing", Description: "Amazon Web Services cloud platform", Aliases: []string{"Amazon Web Services"}, Tags: []string{"cloud", "amazon"}, Level: "intermediate"},
	{Name: "Azure", Category: "Cloud Computing", Description: "Microsoft's cloud computing service", Aliases: []string{"Microsoft Azure"}, Tags: []string{"cloud", "microsoft"}, Level: "intermediate"},
	{Name: "Google Cloud", Category: "Cloud Computing", Description: "Google's cloud computing platform", Aliases: []string{"GCP", "Google Cloud Platform"}, Tags: []string{"cloud", "google"}, Level: "intermediate"},
	{Name: "MongoDB", Category: "Database", Description: "NoSQL document database", Aliases: []string{"Mongo"}, Tags: []string{"nosql", "document"}, Level: "intermediate"},
	{Name: "PostgreSQL", Category: "Database", Description: "Advanced open-source relational database", Aliases: []string{"Postgres"}, Tags: []string{"sql", "relational"}, Level: "intermediate"},
	{Name: "MySQL", Category: "Database", Description: "Popular open-source relational database", Tags: []string{"sql", "relational"}, Level: "intermediate"},
	{Name: "Redis", Category: "Database", Description: "In-memory data structure store", Tags: []string{"cache", "in-memory"}, Level: "intermediate"},
	{Name: "Figma", Category: "UI/UX Design", Description: "Collaborative interface design tool", Tags: []string{"design", "prototyping"}, Level: "intermediate"},
	{Name: "Adobe Photoshop", Category: "Graphics Design", Description: "Image editing software", Aliases: []string{"Photoshop"}, Tags: []string{"design", "editing"}, Level: "intermediate"},
}

// SeedSkills inserts the initial verified skill catalog, skipping names that
// already exist. Returns how many rows were created.
func SeedSkills(db *gorm.DB) (int, error) {
	created := 0
	for _, entry := range initialSkills {
		// Catalog names carry curated casing (JavaScript, NumPy); they are
		// stored as-is rather than title-cased.
		name := entry.Name

		var count int64
		if err := db.Model(&models.Skill{}).
			Where("lower(name) = lower(?) AND is_active = ?", name, true).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		skill := models.Skill{
			Name:          name,
			Category:      entry.Category,
			Description:   entry.Description,
			Aliases:       models.ToStringList(entry.Aliases),
			Tags:          models.ToStringList(entry.Tags),
			Level:         entry.Level,
			IsVerified:    true,
			IsActive:      true,
			RelatedSkills: models.ToUintList(nil),
		}
		if err := db.Create(&skill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
