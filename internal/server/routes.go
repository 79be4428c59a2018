package server

import "github.com/go-chi/chi/v5"

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/company/{ticker}", s.handleCompany)
		r.Get("/companies/{cik}/filings", s.handleFilings)
		r.Get("/companies/{cik}/facts", s.handleFacts)
		r.Get("/companies/{cik}/concept/{taxonomy}/{tag}", s.handleConcept)
		r.Get("/feeds/company/{cik}", s.handleCompanyFeed)
	})
}
