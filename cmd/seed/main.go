package main

import (
	"context"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/repository/postgres"
	"portfolio-chat/internal/service/voice"

	"github.com/joho/godotenv"
)

type sampleProject struct {
	project   db.Project
	caseStudy *db.CaseStudy
	sections  []db.Section
}

var sampleProjects = []sampleProject{
	{
		project: db.Project{
			Title:        "E-commerce Mobile App",
			Slug:         "ecommerce-mobile-app",
			Summary:      "Redesigned mobile checkout flow increasing conversion by 23%",
			Description:  "Led the complete redesign of the mobile checkout experience for a major e-commerce platform. Conducted user research, created prototypes, and collaborated with engineering to implement a streamlined 3-step checkout process.",
			Role:         "Lead UX Designer",
			Timeline:     "6 months",
			Technologies: []string{"Figma", "React Native", "Firebase", "Analytics"},
			Featured:     true,
		},
		caseStudy: &db.CaseStudy{
			Category:         "design",
			ProblemStatement: "Users were abandoning their carts at a rate of 70% during the mobile checkout process. The existing flow had too many steps, required excessive form input, and had poor visual hierarchy.",
			SolutionOverview: "Redesigned the checkout flow from 7 steps down to 3, implemented smart form autofill, and created a progress indicator system. Focused on single-task screens and reduced cognitive load.",
			ImpactMetrics: []db.ImpactMetric{
				{Metric: "Conversion Rate", Value: "+23%"},
				{Metric: "Cart Abandonment", Value: "-45%"},
				{Metric: "Checkout Time", Value: "-60%"},
			},
			LessonsLearned: "The importance of testing with actual users on real devices. What works on desktop rarely translates directly to mobile without significant adaptation.",
			NextSteps:      "Implement personalized payment options based on user history and location. A/B test one-click checkout for returning customers.",
		},
		sections: []db.Section{
			{
				Title:       "User Research & Problem Discovery",
				SectionType: "research",
				Content:     "Conducted 15 user interviews and analyzed analytics data from 50,000 checkout sessions. Key findings: Users struggled with form validation, payment method selection was confusing, and the progress indicator was misleading.",
				Order:       1,
			},
			{
				Title:       "Design Process & Prototyping",
				SectionType: "design",
				Content:     "Created low-fidelity wireframes focusing on information hierarchy. Developed high-fidelity prototypes in Figma with micro-interactions. Conducted 3 rounds of usability testing with 8 users each.",
				Order:       2,
			},
			{
				Title:       "Results & Impact",
				SectionType: "results",
				Content:     "Post-launch metrics showed significant improvement across all KPIs. The redesigned checkout flow became the template for the company's desktop experience as well.",
				Order:       3,
			},
		},
	},
	{
		project: db.Project{
			Title:        "Portfolio Chat Platform",
			Slug:         "portfolio-chat-platform",
			Summary:      "AI-powered conversational portfolio with voice cloning",
			Description:  "Built this conversational portfolio platform using Go, Vue.js, and OpenAI. Features include voice cloning, grounded content retrieval, and dynamic case study generation.",
			Role:         "Full-Stack Developer",
			Timeline:     "3 months",
			Technologies: []string{"Go", "Vue.js", "OpenAI", "PostgreSQL", "Redis"},
			Featured:     true,
		},
		caseStudy: &db.CaseStudy{
			Category:         "development",
			ProblemStatement: "Traditional portfolios are static and don't engage visitors. Recruiters and clients often want to understand the thought process behind projects, not just see the final results.",
			SolutionOverview: "Created an AI-powered conversational interface that can discuss any project in detail, grounding its responses in the structured portfolio content to stay accurate and context-aware.",
			ImpactMetrics: []db.ImpactMetric{
				{Metric: "User Engagement", Value: "+300%"},
				{Metric: "Session Duration", Value: "+150%"},
				{Metric: "Return Visitors", Value: "+80%"},
			},
			LessonsLearned: "The importance of content quality when grounding AI responses. Spent significant time curating and structuring project content for better answers.",
			NextSteps:      "Add multi-language support and integrate with calendar for automatic meeting scheduling based on project discussions.",
		},
	},
	{
		project: db.Project{
			Title:        "SaaS Dashboard Redesign",
			Slug:         "saas-dashboard-redesign",
			Summary:      "Improved user engagement and reduced support tickets by 40%",
			Description:  "Redesigned the main dashboard for a B2B SaaS platform serving 10k+ users. Focused on information hierarchy, data visualization, and mobile responsiveness.",
			Role:         "Senior Product Designer",
			Timeline:     "4 months",
			Technologies: []string{"Sketch", "InVision", "D3.js", "React"},
		},
	},
	{
		project: db.Project{
			Title:        "Product Roadmap Tool",
			Slug:         "product-roadmap-tool",
			Summary:      "Internal tool for managing product roadmaps across teams",
			Description:  "Managed the development of an internal roadmap planning tool. Coordinated with stakeholders, defined requirements, and oversaw the product launch to 200+ team members.",
			Role:         "Product Manager",
			Timeline:     "8 months",
			Technologies: []string{"Jira", "Confluence", "React", "Node.js"},
		},
	},
}

var sampleFAQs = []db.FAQ{
	{
		Question:   "What projects have you worked on?",
		Response:   "I've worked on a range of design and development projects, from redesigning a mobile checkout flow that lifted conversion by 23% to building this conversational portfolio platform itself. Ask me about any of them and I'm happy to go deeper.",
		IsFeatured: true,
		IsActive:   true,
		Priority:   4,
	},
	{
		Question:   "What are your main technical skills?",
		Response:   "My core skills span product design and full-stack development: user research, prototyping in Figma, and building with Go, React, Vue.js, and PostgreSQL. I'm most effective where design and engineering overlap.",
		IsFeatured: true,
		IsActive:   true,
		Priority:   3,
	},
	{
		Question:   "Tell me about your design process",
		Response:   "I start with research to understand the real problem, move through low-fidelity wireframes and rounds of usability testing, then refine into high-fidelity prototypes before handing off to engineering. Measuring impact after launch is part of the process, not an afterthought.",
		IsFeatured: true,
		IsActive:   true,
		Priority:   2,
	},
	{
		Question:   "What kind of role are you looking for?",
		Response:   "I'm looking for a role where I can work across design and engineering, ideally leading product work on something user-facing. Feel free to ask what that has looked like on past projects.",
		IsFeatured: true,
		IsActive:   true,
		Priority:   1,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using environment variables")
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	database, err := postgres.NewPostgresDB(appConfig.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	logger.Log.Info("Creating sample portfolio data...")

	for _, sample := range sampleProjects {
		project := sample.project
		if err := database.CreateProject(&project); err != nil {
			logger.Log.WithError(err).WithField("slug", project.Slug).Fatal("Failed to create project")
		}

		if sample.caseStudy == nil {
			continue
		}

		caseStudy := *sample.caseStudy
		caseStudy.ProjectID = project.ID
		if err := database.CreateCaseStudy(&caseStudy); err != nil {
			logger.Log.WithError(err).WithField("slug", project.Slug).Fatal("Failed to create case study")
		}

		for _, s := range sample.sections {
			section := s
			section.CaseStudyID = caseStudy.ID
			if err := database.CreateSection(&section); err != nil {
				logger.Log.WithError(err).WithField("title", section.Title).Fatal("Failed to create section")
			}
		}
	}

	faqIDs := make([]string, 0, len(sampleFAQs))
	for _, f := range sampleFAQs {
		faq := f
		if err := database.CreateFAQ(&faq); err != nil {
			logger.Log.WithError(err).WithField("question", faq.Question).Fatal("Failed to create FAQ")
		}
		faqIDs = append(faqIDs, faq.ID)
	}

	// Audio generation is an explicit post-creation step so a missing or
	// failing TTS provider never blocks seeding the content itself
	voiceService := voice.NewVoiceService(database, voice.NewElevenLabsProvider(&appConfig.Voice))
	if voiceService.IsConfigured() {
		ctx := context.Background()
		for _, faqID := range faqIDs {
			if err := voiceService.GenerateForFAQ(ctx, faqID); err != nil {
				logger.Log.WithError(err).WithField("faq_id", faqID).Warn("Failed to generate FAQ audio")
			}
		}
	} else {
		logger.Log.Info("Voice provider not configured, skipping FAQ audio generation")
	}

	logger.Log.Info("Successfully populated portfolio with sample data")
}
