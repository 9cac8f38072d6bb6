package handlers

import (
	"net/http"

	"portfolio-chat/internal/logger"
)

// FeaturedQuestion is one suggested starter question
type FeaturedQuestion struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	AudioURL string `json:"audio_url,omitempty"`
	Source   string `json:"source"`
}

type FeaturedQuestionsResponse struct {
	Questions []FeaturedQuestion `json:"questions"`
	Count     int                `json:"count"`
}

// defaultFeaturedQuestions is served when no FAQs are flagged featured or
// the lookup fails, so the landing page always has starter prompts
var defaultFeaturedQuestions = []string{
	"What projects have you worked on?",
	"What are your main technical skills?",
	"Tell me about your design process",
	"What kind of role are you looking for?",
}

// FeaturedQuestionsHandler returns the featured FAQ questions, falling back
// to a canned set when none are available
func (h *Handlers) FeaturedQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.db.GetFeaturedFAQs()
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching featured FAQs")
		h.sendDefaultQuestions(w)
		return
	}
	if len(faqs) == 0 {
		h.sendDefaultQuestions(w)
		return
	}

	questions := make([]FeaturedQuestion, 0, len(faqs))
	for _, faq := range faqs {
		item := FeaturedQuestion{
			ID:       faq.ID,
			Question: faq.Question,
			Source:   "faq",
		}
		if faq.HasAudio() {
			item.AudioURL = h.faqAudioURL(faq.ID)
		}
		questions = append(questions, item)
	}

	h.sendJSON(w, http.StatusOK, FeaturedQuestionsResponse{Questions: questions, Count: len(questions)})
}

func (h *Handlers) sendDefaultQuestions(w http.ResponseWriter) {
	questions := make([]FeaturedQuestion, 0, len(defaultFeaturedQuestions))
	for _, question := range defaultFeaturedQuestions {
		questions = append(questions, FeaturedQuestion{Question: question, Source: "default"})
	}
	h.sendJSON(w, http.StatusOK, FeaturedQuestionsResponse{Questions: questions, Count: len(questions)})
}
