package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"

	"github.com/google/uuid"
)

// GetProjects retrieves all projects with their case study and sections,
// featured first then newest first
func (p *PostgresDB) GetProjects() ([]db.Project, error) {
	query := `
	SELECT id, title, slug, summary, description, role, timeline, technologies, featured, created_at, updated_at
	FROM projects
	ORDER BY featured DESC, created_at DESC
	`

	rows, err := p.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	var projects []db.Project
	for rows.Next() {
		var proj db.Project
		var technologies []byte
		if err := rows.Scan(&proj.ID, &proj.Title, &proj.Slug, &proj.Summary, &proj.Description,
			&proj.Role, &proj.Timeline, &technologies, &proj.Featured, &proj.CreatedAt, &proj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		if err := json.Unmarshal(technologies, &proj.Technologies); err != nil {
			return nil, fmt.Errorf("error decoding technologies: %w", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	for i := range projects {
		caseStudy, err := p.getCaseStudyForProject(projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].CaseStudy = caseStudy
	}

	return projects, nil
}

// getCaseStudyForProject returns the project's case study with its sections,
// or nil when the project has none
func (p *PostgresDB) getCaseStudyForProject(projectID string) (*db.CaseStudy, error) {
	var cs db.CaseStudy
	var metrics []byte

	query := `
	SELECT id, project_id, category, hero_image, problem_statement, solution_overview, impact_metrics, lessons_learned, next_steps
	FROM case_studies
	WHERE project_id = $1
	`

	err := p.conn.QueryRow(query, projectID).Scan(&cs.ID, &cs.ProjectID, &cs.Category, &cs.HeroImage,
		&cs.ProblemStatement, &cs.SolutionOverview, &metrics, &cs.LessonsLearned, &cs.NextSteps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving case study: %w", err)
	}

	if err := json.Unmarshal(metrics, &cs.ImpactMetrics); err != nil {
		return nil, fmt.Errorf("error decoding impact metrics: %w", err)
	}

	sections, err := p.getSectionsForCaseStudy(cs.ID)
	if err != nil {
		return nil, err
	}
	cs.Sections = sections

	return &cs, nil
}

func (p *PostgresDB) getSectionsForCaseStudy(caseStudyID string) ([]db.Section, error) {
	query := `
	SELECT id, case_study_id, title, section_type, content, display_order, media_urls
	FROM sections
	WHERE case_study_id = $1
	ORDER BY display_order ASC
	`

	rows, err := p.conn.Query(query, caseStudyID)
	if err != nil {
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	var sections []db.Section
	for rows.Next() {
		var sec db.Section
		var mediaURLs []byte
		if err := rows.Scan(&sec.ID, &sec.CaseStudyID, &sec.Title, &sec.SectionType, &sec.Content, &sec.Order, &mediaURLs); err != nil {
			return nil, fmt.Errorf("error scanning section: %w", err)
		}
		if err := json.Unmarshal(mediaURLs, &sec.MediaURLs); err != nil {
			return nil, fmt.Errorf("error decoding media urls: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

const faqColumns = `id, question, response, is_featured, is_active, priority, audio_data, audio_generated_at, audio_generation_time_ms, word_timestamps, created_at`

func scanFAQ(scanner interface{ Scan(...any) error }) (*db.FAQ, error) {
	var faq db.FAQ
	var timestamps []byte
	err := scanner.Scan(&faq.ID, &faq.Question, &faq.Response, &faq.IsFeatured, &faq.IsActive, &faq.Priority,
		&faq.AudioData, &faq.AudioGeneratedAt, &faq.AudioGenerationTimeMs, &timestamps, &faq.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(timestamps, &faq.WordTimestamps); err != nil {
		return nil, fmt.Errorf("error decoding word timestamps: %w", err)
	}
	return &faq, nil
}

// GetActiveFAQs retrieves up to limit active FAQs ordered by priority then
// recency. A non-positive limit returns all active FAQs.
func (p *PostgresDB) GetActiveFAQs(limit int) ([]db.FAQ, error) {
	query := `
	SELECT ` + faqColumns + `
	FROM faqs
	WHERE is_active = TRUE
	ORDER BY priority DESC, created_at DESC
	LIMIT NULLIF($1, 0)
	`

	if limit < 0 {
		limit = 0
	}
	rows, err := p.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying FAQs: %w", err)
	}
	defer rows.Close()

	var faqs []db.FAQ
	for rows.Next() {
		faq, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning FAQ: %w", err)
		}
		faqs = append(faqs, *faq)
	}
	return faqs, rows.Err()
}

// GetFeaturedFAQs retrieves all featured active FAQs ordered by priority then recency
func (p *PostgresDB) GetFeaturedFAQs() ([]db.FAQ, error) {
	query := `
	SELECT ` + faqColumns + `
	FROM faqs
	WHERE is_featured = TRUE AND is_active = TRUE
	ORDER BY priority DESC, created_at DESC
	`

	rows, err := p.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying featured FAQs: %w", err)
	}
	defer rows.Close()

	var faqs []db.FAQ
	for rows.Next() {
		faq, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning FAQ: %w", err)
		}
		faqs = append(faqs, *faq)
	}
	return faqs, rows.Err()
}

// GetFAQ retrieves a single FAQ by id
func (p *PostgresDB) GetFAQ(id string) (*db.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs WHERE id = $1`

	faq, err := scanFAQ(p.conn.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving FAQ: %w", err)
	}
	return faq, nil
}

// CreateProject inserts a new project, assigning its ID and timestamps
func (p *PostgresDB) CreateProject(proj *db.Project) error {
	proj.ID = uuid.New().String()
	technologies, err := json.Marshal(proj.Technologies)
	if err != nil {
		return fmt.Errorf("error encoding technologies: %w", err)
	}

	query := `
	INSERT INTO projects (id, title, slug, summary, description, role, timeline, technologies, featured)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	err = p.conn.QueryRow(query, proj.ID, proj.Title, proj.Slug, proj.Summary, proj.Description,
		proj.Role, proj.Timeline, technologies, proj.Featured).Scan(&proj.CreatedAt, &proj.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	logger.Log.WithField("slug", proj.Slug).Info("Created project")
	return nil
}

// CreateCaseStudy inserts a new case study for a project
func (p *PostgresDB) CreateCaseStudy(cs *db.CaseStudy) error {
	cs.ID = uuid.New().String()
	metrics, err := json.Marshal(cs.ImpactMetrics)
	if err != nil {
		return fmt.Errorf("error encoding impact metrics: %w", err)
	}
	if cs.ImpactMetrics == nil {
		metrics = []byte("[]")
	}

	query := `
	INSERT INTO case_studies (id, project_id, category, hero_image, problem_statement, solution_overview, impact_metrics, lessons_learned, next_steps)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if _, err := p.conn.Exec(query, cs.ID, cs.ProjectID, cs.Category, cs.HeroImage,
		cs.ProblemStatement, cs.SolutionOverview, metrics, cs.LessonsLearned, cs.NextSteps); err != nil {
		return fmt.Errorf("error creating case study: %w", err)
	}
	return nil
}

// CreateSection inserts a new section for a case study
func (p *PostgresDB) CreateSection(s *db.Section) error {
	s.ID = uuid.New().String()
	mediaURLs, err := json.Marshal(s.MediaURLs)
	if err != nil {
		return fmt.Errorf("error encoding media urls: %w", err)
	}
	if s.MediaURLs == nil {
		mediaURLs = []byte("[]")
	}

	query := `
	INSERT INTO sections (id, case_study_id, title, section_type, content, display_order, media_urls)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := p.conn.Exec(query, s.ID, s.CaseStudyID, s.Title, s.SectionType, s.Content, s.Order, mediaURLs); err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}
	return nil
}

// CreateFAQ inserts a new FAQ, assigning its ID and creation timestamp
func (p *PostgresDB) CreateFAQ(f *db.FAQ) error {
	f.ID = uuid.New().String()

	query := `
	INSERT INTO faqs (id, question, response, is_featured, is_active, priority)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`

	if err := p.conn.QueryRow(query, f.ID, f.Question, f.Response, f.IsFeatured, f.IsActive, f.Priority).Scan(&f.CreatedAt); err != nil {
		return fmt.Errorf("error creating FAQ: %w", err)
	}

	logger.Log.WithField("faq_id", f.ID).Info("Created FAQ")
	return nil
}

// SaveFAQAudio stores a generated voice clip and its estimated timings on an FAQ
func (p *PostgresDB) SaveFAQAudio(faqID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error {
	encoded, err := json.Marshal(timestamps)
	if err != nil {
		return fmt.Errorf("error encoding word timestamps: %w", err)
	}
	if timestamps == nil {
		encoded = []byte("[]")
	}

	query := `
	UPDATE faqs
	SET audio_data = $1, audio_generated_at = $2, audio_generation_time_ms = $3, word_timestamps = $4
	WHERE id = $5
	`

	result, err := p.conn.Exec(query, audio, time.Now().UTC(), generationTimeMs, encoded, faqID)
	if err != nil {
		return fmt.Errorf("error saving FAQ audio: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}

	logger.Log.WithField("faq_id", faqID).Info("Saved FAQ audio")
	return nil
}
