package schema

import "time"

// User é a conta de acesso ao painel.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Supporter representa uma pessoa que se inscreveu pelo assistente público.
type Supporter struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Neighborhood     string     `json:"neighborhood"`
	NeighborhoodType string     `json:"neighborhoodType"`
	Phone            string     `json:"phone"`
	Cedula           string     `json:"cedula"`
	FamilySize       string     `json:"familySize"`
	AgeRange         string     `json:"ageRange"`
	Status           string     `json:"status"`
	Origin           string     `json:"origin"`
	Message          *string    `json:"message"`
	CreatedAt        *time.Time `json:"createdAt"`
}

// Activity é uma atividade de campanha exibida no site.
type Activity struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ImageURL    *string   `json:"imageUrl"`
}

// News é uma notícia publicada pela equipe.
type News struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	ImageURL *string   `json:"imageUrl"`
}

// Proposal é uma proposta do programa (problema + solução).
type Proposal struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Category string `json:"category"`
}

// Event é um compromisso agendado com local.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

// HomeContent guarda os textos editáveis do site; existe no máximo uma linha.
type HomeContent struct {
	ID                  int64   `json:"id,omitempty"`
	HeroTitle           string  `json:"heroTitle"`
	HeroSubtitle        string  `json:"heroSubtitle"`
	HeroImage           *string `json:"heroImage"`
	AllianceName        string  `json:"allianceName"`
	AllianceMovement    string  `json:"allianceMovement"`
	CandidateName       string  `json:"candidateName"`
	CandidateRole       string  `json:"candidateRole"`
	CandidateImage      *string `json:"candidateImage"`
	CandidateListNumber string  `json:"candidateListNumber"`
	Theme               string  `json:"theme"`
	CandidateBio        string  `json:"candidateBio"`
	TransparencyText    string  `json:"transparencyText"`
}
