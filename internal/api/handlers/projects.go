package handlers

import (
	"net/http"
	"time"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
)

// ProjectData is the serialized form of a project with its nested case study
type ProjectData struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	Summary      string         `json:"summary"`
	Description  string         `json:"description"`
	Role         string         `json:"role"`
	Timeline     string         `json:"timeline"`
	Technologies []string       `json:"technologies"`
	Featured     bool           `json:"featured"`
	CreatedAt    string         `json:"created_at"`
	CaseStudy    *CaseStudyData `json:"case_study,omitempty"`
}

type CaseStudyData struct {
	Category         string            `json:"category"`
	HeroImage        string            `json:"hero_image"`
	ProblemStatement string            `json:"problem_statement"`
	SolutionOverview string            `json:"solution_overview"`
	ImpactMetrics    []db.ImpactMetric `json:"impact_metrics"`
	LessonsLearned   string            `json:"lessons_learned"`
	NextSteps        string            `json:"next_steps"`
	Sections         []SectionData     `json:"sections"`
}

type SectionData struct {
	Title       string   `json:"title"`
	SectionType string   `json:"section_type"`
	Content     string   `json:"content"`
	Order       int      `json:"order"`
	MediaURLs   []string `json:"media_urls"`
}

type ProjectsResponse struct {
	Projects []ProjectData `json:"projects"`
	Count    int           `json:"count"`
}

// ProjectsHandler returns all projects with nested case-study and section data
func (h *Handlers) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.db.GetProjects()
	if err != nil {
		logger.Log.WithError(err).Error("Error in projects handler")
		h.sendError(w, http.StatusInternalServerError, "An error occurred fetching projects")
		return
	}

	data := make([]ProjectData, 0, len(projects))
	for _, project := range projects {
		item := ProjectData{
			ID:           project.ID,
			Title:        project.Title,
			Slug:         project.Slug,
			Summary:      project.Summary,
			Description:  project.Description,
			Role:         project.Role,
			Timeline:     project.Timeline,
			Technologies: project.Technologies,
			Featured:     project.Featured,
			CreatedAt:    project.CreatedAt.Format(time.RFC3339),
		}

		if cs := project.CaseStudy; cs != nil {
			sections := make([]SectionData, 0, len(cs.Sections))
			for _, section := range cs.Sections {
				sections = append(sections, SectionData{
					Title:       section.Title,
					SectionType: section.SectionType,
					Content:     section.Content,
					Order:       section.Order,
					MediaURLs:   section.MediaURLs,
				})
			}
			item.CaseStudy = &CaseStudyData{
				Category:         cs.Category,
				HeroImage:        cs.HeroImage,
				ProblemStatement: cs.ProblemStatement,
				SolutionOverview: cs.SolutionOverview,
				ImpactMetrics:    cs.ImpactMetrics,
				LessonsLearned:   cs.LessonsLearned,
				NextSteps:        cs.NextSteps,
				Sections:         sections,
			}
		}

		data = append(data, item)
	}

	h.sendJSON(w, http.StatusOK, ProjectsResponse{Projects: data, Count: len(data)})
}
