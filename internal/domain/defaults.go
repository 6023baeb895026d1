package domain

// Built-in content defaults. A snapshot field that resolves to empty at
// every store falls back to these so the site is never blank, even fully
// offline.

func DefaultExperiences() []Experience {
	return []Experience{
		{
			ID:          "1",
			Role:        "Content Creator & Editora de Video",
			Company:     "Freelance",
			Period:      "2022 - Presente",
			Description: "Creación de contenido viral para TikTok e Instagram. Edición dinámica de Reels, corrección de color y diseño de miniaturas atractivas para YouTube.",
		},
		{
			ID:          "2",
			Role:        "Diseñadora Gráfica para Redes",
			Company:     "Agencia Digital Creative",
			Period:      "2020 - 2022",
			Description: "Diseño de parrillas de contenido para Instagram y Facebook. Creación de identidad visual para marcas de moda y belleza.",
		},
		{
			ID:          "3",
			Role:        "Asistente de Producción Audiovisual",
			Company:     "Studio Visual Pro",
			Period:      "2019 - 2020",
			Description: "Apoyo en grabación, iluminación y postproducción de videos corporativos y comerciales.",
		},
	}
}

func DefaultEducation() []Education {
	return []Education{
		{ID: "1", Degree: "Diseño Gráfico Publicitario", Institution: "Instituto de Artes Visuales", Year: "2019"},
		{ID: "2", Degree: "Curso Avanzado de Adobe Premiere & After Effects", Institution: "Crehana", Year: "2021"},
	}
}

func DefaultSkills() []Skill {
	return []Skill{
		{Name: "Adobe Premiere Pro", Level: 90},
		{Name: "Adobe Photoshop", Level: 95},
		{Name: "After Effects", Level: 80},
		{Name: "CapCut / VN", Level: 95},
		{Name: "Canva Pro", Level: 100},
		{Name: "Illustrator", Level: 85},
	}
}

func DefaultHeroContent() HeroContent {
	return HeroContent{
		Title:          "Full Stack Developer",
		Name:           "Erik",
		Description:    "Desarrollador especializado en React, TypeScript y aplicaciones web modernas. Experiencia en e-commerce, portafolios interactivos y soluciones SaaS con Supabase, PostgreSQL y APIs REST.",
		BackgroundType: "gradient",
		GradientFrom:   "#0f172a",
		GradientVia:    "#1e40af",
		GradientTo:     "#1e3a8a",
	}
}

// DefaultSnapshot is the in-memory starting point before any store is
// consulted.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Experiences: DefaultExperiences(),
		Education:   DefaultEducation(),
		Skills:      DefaultSkills(),
		Logos:       []LogoItem{},
		Brands:      []Brand{},
		HeroContent: DefaultHeroContent(),
	}
}

// SectionEmpty reports whether the named field of the snapshot carries no
// content. Absent and length-0 are indistinguishable on purpose: the
// source system has no "initialized" marker either.
func (s *Snapshot) SectionEmpty(section string) bool {
	switch section {
	case SectionExperiences:
		return len(s.Experiences) == 0
	case SectionEducation:
		return len(s.Education) == 0
	case SectionSkills:
		return len(s.Skills) == 0
	case SectionLogos:
		return len(s.Logos) == 0
	case SectionBrands:
		return len(s.Brands) == 0
	case SectionSocials:
		return s.Socials == SocialLinks{}
	case SectionHero:
		return s.HeroContent == HeroContent{}
	case SectionWhatsapp:
		return s.Whatsapp == ""
	case SectionPDF:
		return s.PDFData == ""
	}
	return true
}

// ApplyDefaults substitutes the built-in default sequence for each of the
// three resume fields that came back empty, independently per field. It
// returns the names of the fields it touched; a non-empty result is what
// triggers the coordinator's self-healing write-back.
func (s *Snapshot) ApplyDefaults() []string {
	var healed []string
	if len(s.Experiences) == 0 {
		s.Experiences = DefaultExperiences()
		healed = append(healed, SectionExperiences)
	}
	if len(s.Education) == 0 {
		s.Education = DefaultEducation()
		healed = append(healed, SectionEducation)
	}
	if len(s.Skills) == 0 {
		s.Skills = DefaultSkills()
		healed = append(healed, SectionSkills)
	}
	return healed
}

// RepairHero merges a stored hero record with the defaults so fields
// added after the record was written are never rendered blank.
func (s *Snapshot) RepairHero() {
	def := DefaultHeroContent()
	if s.HeroContent == (HeroContent{}) {
		s.HeroContent = def
		return
	}
	if s.HeroContent.Title == "" {
		s.HeroContent.Title = def.Title
	}
	if s.HeroContent.Name == "" {
		s.HeroContent.Name = def.Name
	}
	if s.HeroContent.Description == "" {
		s.HeroContent.Description = def.Description
	}
	if s.HeroContent.BackgroundType == "" {
		s.HeroContent.BackgroundType = def.BackgroundType
	}
	if s.HeroContent.BackgroundType == "gradient" && s.HeroContent.GradientFrom == "" {
		s.HeroContent.GradientFrom = def.GradientFrom
		s.HeroContent.GradientVia = def.GradientVia
		s.HeroContent.GradientTo = def.GradientTo
	}
}
