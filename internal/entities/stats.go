package entities

type Totals struct {
	Etudiants int64 `json:"etudiants"`
	Livres    int64 `json:"livres"`
	Emprunts  int64 `json:"emprunts"`
}

type LoanCounts struct {
	EnCours  int64 `json:"en_cours"`
	Termines int64 `json:"termines"`
}

// StatsOverview is the payload of GET /stats/overview.
type StatsOverview struct {
	Totaux            Totals     `json:"totaux"`
	Emprunts          LoanCounts `json:"emprunts"`
	LivresDisponibles int64      `json:"livres_disponibles"`
	TauxEmprunt       float64    `json:"taux_emprunt"`
}

type TopStudent struct {
	ID             uint   `json:"id"`
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	NombreEmprunts int64  `json:"nombre_emprunts"`
}

type TopBook struct {
	ISBN           string `json:"isbn"`
	Titre          string `json:"titre"`
	Auteur         string `json:"auteur"`
	NombreEmprunts int64  `json:"nombre_emprunts"`
}
