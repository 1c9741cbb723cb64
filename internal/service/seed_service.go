package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

// SeedService fills the vocabulary tables and point categories with their
// baseline data. Seeding is idempotent: existing rows are left untouched,
// so it is safe to run on every startup.
type SeedService interface {
	Seed(ctx context.Context) error
}

type seedService struct {
	taxonomy repository.TaxonomyRepository
	points   repository.PointsRepository
	logger   zerolog.Logger
}

// NewSeedService constructs the seed service.
func NewSeedService(taxonomy repository.TaxonomyRepository, points repository.PointsRepository, logger zerolog.Logger) SeedService {
	return &seedService{
		taxonomy: taxonomy,
		points:   points,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

var seedRoles = []models.Role{
	{Code: "teamlead", Name: "Тимлид"},
	{Code: "backend", Name: "Backend-разработчик"},
	{Code: "frontend", Name: "Frontend-разработчик"},
	{Code: "fullstack", Name: "Fullstack-разработчик"},
	{Code: "designer", Name: "Дизайнер"},
	{Code: "analyst", Name: "Аналитик"},
	{Code: "qa", Name: "QA-инженер"},
	{Code: "devops", Name: "DevOps-инженер"},
	{Code: "mobile", Name: "Mobile-разработчик"},
	{Code: "pm", Name: "Product Manager"},
}

var seedInterests = []string{
	"Frontend-разработка",
	"Backend-разработка",
	"Fullstack-разработка",
	"Mobile-разработка",
	"Дизайн",
	"UI/UX",
	"AI и машинное обучение",
	"Data Science",
	"Кибербезопасность",
	"DevOps",
	"Blockchain",
	"Game Development",
	"Web3",
	"Аналитика данных",
	"Тестирование",
	"Проектный менеджмент",
}

// seedSkills maps skill-category name to its skills.
var seedSkills = map[string][]string{
	"Разработка": {
		"Python", "JavaScript", "TypeScript", "Java", "C++", "C#", "Go",
		"Rust", "PHP", "Ruby", "React", "Vue.js", "Angular", "Node.js",
		"Django", "Flask", "FastAPI", "Spring Boot", "Express.js", "Laravel",
		"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Docker",
		"Kubernetes", "Git", "REST API", "GraphQL", "WebSocket",
		"React Native", "Flutter", "Swift", "Kotlin",
	},
	"Дизайн": {
		"Figma", "Adobe Photoshop", "Adobe Illustrator", "Adobe XD",
		"Sketch", "UI Design", "UX Design", "Прототипирование",
		"Веб-дизайн", "Мобильный дизайн", "Графический дизайн", "Брендинг",
	},
	"Аналитика": {
		"Анализ данных", "Python (Data Science)", "R", "Pandas", "NumPy",
		"Matplotlib", "Seaborn", "Tableau", "Power BI", "Excel",
		"SQL для аналитики", "Статистика", "Машинное обучение",
		"Deep Learning", "TensorFlow", "PyTorch",
	},
	"Управление": {
		"Agile", "Scrum", "Kanban", "Управление проектами", "Jira",
		"Trello", "Asana", "Лидерство", "Командная работа",
	},
	"Инфраструктура": {
		"Linux", "AWS", "Azure", "Google Cloud", "CI/CD", "Jenkins",
		"GitLab CI", "GitHub Actions", "Terraform", "Ansible", "Nginx",
		"Мониторинг",
	},
}

// seedSkillCategories fixes the insertion order of the category names.
var seedSkillCategories = []string{
	"Разработка", "Дизайн", "Аналитика", "Управление", "Инфраструктура",
}

var seedRewardCategories = []models.PointCategory{
	{Name: "Участие в проекте", Points: 10},
	{Name: "Победа в хакатоне", Points: 50},
	{Name: "Призовое место в хакатоне", Points: 30},
	{Name: "Участие в хакатоне", Points: 15},
	{Name: "Выступление на мероприятии", Points: 20},
	{Name: "Организация мероприятия", Points: 25},
	{Name: "Помощь другим студентам", Points: 5},
	{Name: "Активность в сообществе", Points: 5},
	{Name: "Публикация статьи/материала", Points: 15},
	{Name: "Отличная работа в команде", Points: 10},
}

var seedPenaltyCategories = []models.PointCategory{
	{Name: "Пропуск мероприятия без уважительной причины", Points: -5, IsPenalty: true},
	{Name: "Невыполнение обязательств в проекте", Points: -10, IsPenalty: true},
	{Name: "Нарушение правил сообщества", Points: -15, IsPenalty: true},
}

var seedCustomCategory = models.PointCategory{Name: "Прочее", Points: 0, IsCustom: true}

func (s *seedService) Seed(ctx context.Context) error {
	created := 0

	for _, role := range seedRoles {
		exists, err := s.taxonomy.RoleCodeExists(ctx, role.Code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		row := role
		if err := s.taxonomy.CreateRole(ctx, &row); err != nil {
			return err
		}
		created++
	}

	for _, name := range seedInterests {
		exists, err := s.taxonomy.InterestNameExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		row := models.Interest{Name: name}
		if err := s.taxonomy.CreateInterest(ctx, &row); err != nil {
			return err
		}
		created++
	}

	categoryIDs := make(map[string]uint, len(seedSkillCategories))
	categories, err := s.taxonomy.ListSkillCategories(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		categoryIDs[category.Name] = category.ID
	}

	for _, name := range seedSkillCategories {
		if _, ok := categoryIDs[name]; ok {
			continue
		}

		row := models.SkillCategory{Name: name}
		if err := s.taxonomy.CreateSkillCategory(ctx, &row); err != nil {
			return err
		}
		categoryIDs[name] = row.ID
		created++
	}

	for _, categoryName := range seedSkillCategories {
		categoryID := categoryIDs[categoryName]
		for _, skillName := range seedSkills[categoryName] {
			exists, err := s.taxonomy.SkillNameExists(ctx, skillName)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			row := models.Skill{Name: skillName, CategoryID: categoryID}
			if err := s.taxonomy.CreateSkill(ctx, &row); err != nil {
				return err
			}
			created++
		}
	}

	pointCategories := make([]models.PointCategory, 0, len(seedRewardCategories)+len(seedPenaltyCategories)+1)
	pointCategories = append(pointCategories, seedRewardCategories...)
	pointCategories = append(pointCategories, seedPenaltyCategories...)
	pointCategories = append(pointCategories, seedCustomCategory)

	for _, category := range pointCategories {
		exists, err := s.points.CategoryNameExists(ctx, category.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		row := category
		row.IsActive = true
		if err := s.points.CreateCategory(ctx, &row); err != nil {
			return err
		}
		created++
	}

	s.logger.Info().Int("created", created).Msg("seed completed")

	return nil
}
