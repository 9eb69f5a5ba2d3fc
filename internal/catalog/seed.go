package catalog

import "context"

// SeedDemo loads a small demo catalog when the store is empty. Used by the
// gateway in offline mode so a fresh install has something to practice on.
func SeedDemo(ctx context.Context, store Store) error {
	existing, err := store.ListPackages(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	pkg := ExamPackage{
		ID:          "demo-oab",
		Title:       "Exame da Ordem",
		Description: "Preparatório completo para a primeira fase",
		Price:       149.90,
		Features:    []string{"Banco de questões comentadas", "Sessões cronometradas", "Estatísticas de desempenho"},
	}
	if err := store.PutPackage(ctx, pkg); err != nil {
		return err
	}

	topics := []Topic{
		{ID: "demo-const", PackageID: pkg.ID, Title: "Princípios Constitucionais", Description: "Fundamentos do direito constitucional"},
		{ID: "demo-civil", PackageID: pkg.ID, Title: "Processo Civil", Description: "Procedimentos em ações cíveis"},
		{ID: "demo-contratos", PackageID: pkg.ID, Title: "Contratos", Description: "Formação e execução de contratos"},
	}
	for _, t := range topics {
		if err := store.PutTopic(ctx, t); err != nil {
			return err
		}
	}

	questions := []Question{
		{
			TopicID: "demo-const",
			Text:    "A dignidade da pessoa humana é classificada pela Constituição de 1988 como:",
			Options: []Option{
				{ID: "A", Text: "Um objetivo fundamental da República"},
				{ID: "B", Text: "Um fundamento da República"},
				{ID: "C", Text: "Um princípio sensível"},
				{ID: "D", Text: "Uma garantia individual"},
			},
			CorrectAnswer: "B",
			Rationale:     "Art. 1º, III, da CF/88 lista a dignidade da pessoa humana entre os fundamentos da República.",
		},
		{
			TopicID: "demo-const",
			Text:    "O controle difuso de constitucionalidade pode ser exercido por qualquer juiz ou tribunal.",
			Options: []Option{
				{ID: "V", Text: "Verdadeiro"},
				{ID: "F", Text: "Falso"},
			},
			CorrectAnswer: "V",
			Rationale:     "No modelo difuso, a questão constitucional pode ser apreciada incidentalmente por qualquer órgão judicial.",
		},
		{
			TopicID: "demo-civil",
			Text:    "O prazo geral para contestação no procedimento comum é de:",
			Options: []Option{
				{ID: "A", Text: "10 dias úteis"},
				{ID: "B", Text: "15 dias úteis"},
				{ID: "C", Text: "20 dias corridos"},
				{ID: "D", Text: "30 dias corridos"},
			},
			CorrectAnswer: "B",
			Rationale:     "Art. 335 do CPC fixa o prazo de 15 dias úteis, contado na forma do art. 231.",
		},
		{
			TopicID: "demo-contratos",
			Text:    "A proposta de contrato obriga o proponente.",
			Options: []Option{
				{ID: "V", Text: "Verdadeiro"},
				{ID: "F", Text: "Falso"},
			},
			CorrectAnswer: "V",
			Rationale:     "Art. 427 do Código Civil: a proposta obriga o proponente, salvo as exceções legais ou dos próprios termos.",
		},
	}
	for _, q := range questions {
		if err := store.PutQuestion(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
