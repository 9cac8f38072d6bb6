package slide

import (
	"strings"

	"portfolio-chat/internal/repository/db"
)

const maxSlideMedia = 5

// Section types whose media lead the slide
var visualSectionTypes = map[string]bool{
	"design":  true,
	"results": true,
}

// Topic keywords to case-study category, used when no project matches directly
var topicCategories = []struct {
	keywords []string
	category string
}{
	{[]string{"design", "ux", "ui", "visual", "prototype"}, "design"},
	{[]string{"code", "develop", "engineer", "technical", "build"}, "development"},
	{[]string{"product", "strategy", "roadmap", "management"}, "product"},
}

// ExtractMediaURLs pulls up to 5 media URLs relevant to the exchange from the
// content store: hero image plus section media of projects mentioned in the
// query or reply, falling back to a topic-keyword category match
func ExtractMediaURLs(userQuery, aiResponse string, projects []db.Project) []string {
	matched := matchProjects(userQuery, aiResponse, projects)
	if len(matched) == 0 {
		matched = matchProjectsByTopic(userQuery, projects)
	}

	var urls []string
	for _, project := range matched {
		urls = append(urls, collectProjectMedia(project)...)
	}

	return dedupeAndCap(urls, maxSlideMedia)
}

// matchProjects finds projects whose title or technology tags appear in the
// query or reply text
func matchProjects(userQuery, aiResponse string, projects []db.Project) []db.Project {
	text := strings.ToLower(userQuery + " " + aiResponse)

	var matched []db.Project
	for _, project := range projects {
		if strings.Contains(text, strings.ToLower(project.Title)) {
			matched = append(matched, project)
			continue
		}
		for _, tech := range project.Technologies {
			if strings.Contains(text, strings.ToLower(tech)) {
				matched = append(matched, project)
				break
			}
		}
	}
	return matched
}

func matchProjectsByTopic(userQuery string, projects []db.Project) []db.Project {
	query := strings.ToLower(userQuery)

	for _, topic := range topicCategories {
		for _, keyword := range topic.keywords {
			if !strings.Contains(query, keyword) {
				continue
			}
			var matched []db.Project
			for _, project := range projects {
				if project.CaseStudy != nil && project.CaseStudy.Category == topic.category {
					matched = append(matched, project)
				}
			}
			if len(matched) > 0 {
				return matched
			}
		}
	}
	return nil
}

// collectProjectMedia gathers the case-study hero image and up to 2 media
// URLs from visual sections, padding with 1 URL from other sections when
// fewer than 3 were collected
func collectProjectMedia(project db.Project) []string {
	cs := project.CaseStudy
	if cs == nil {
		return nil
	}

	var urls []string
	if cs.HeroImage != "" {
		urls = append(urls, cs.HeroImage)
	}

	visualCount := 0
	for _, section := range cs.Sections {
		if visualCount == 2 {
			break
		}
		if !visualSectionTypes[section.SectionType] {
			continue
		}
		for _, url := range section.MediaURLs {
			urls = append(urls, url)
			visualCount++
			if visualCount == 2 {
				break
			}
		}
	}

	if len(urls) < 3 {
		for _, section := range cs.Sections {
			if visualSectionTypes[section.SectionType] || len(section.MediaURLs) == 0 {
				continue
			}
			urls = append(urls, section.MediaURLs[0])
			break
		}
	}

	return urls
}

// dedupeAndCap removes duplicates preserving first-seen order and truncates
func dedupeAndCap(urls []string, limit int) []string {
	seen := make(map[string]bool, len(urls))
	var result []string
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		result = append(result, url)
		if len(result) == limit {
			break
		}
	}
	return result
}
