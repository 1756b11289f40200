package operation

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/effect"
)

var catalog = []Operation{
	// Data
	{
		ID: "web_crawl", Name: "Web Crawl", Category: CategoryData,
		Description: "Scrape the open web for raw interaction data.",
		Cost:        Cost{Budget: 150, ComputePoints: 1},
		Effects:     effect.Bundle{DirtyData: 350, Entropy: 8, LegalRisk: 5},
	},
	{
		ID: "buy_dataset", Name: "Buy Dataset", Category: CategoryData,
		Description: "License a curated dataset.",
		Cost:        Cost{Budget: 800, ComputePoints: 1},
		Effects:     effect.Bundle{GoldenData: 100},
	},
	{
		ID: "data_cleaning", Name: "Data Cleaning", Category: CategoryData,
		Description: "Turn dirty data into golden data.",
		Cost:        Cost{ComputePoints: 1, DirtyData: 200},
		Effects:     effect.Bundle{GoldenData: 50, Dimensions: effect.Dim(dimension.DataProcessing, 2)},
	},
	{
		ID: "data_labeling", Name: "Data Labeling", Category: CategoryData,
		Description: "Outsource labeling of raw samples.",
		Cost:        Cost{Budget: 300, ComputePoints: 1, DirtyData: 100},
		Effects:     effect.Bundle{GoldenData: 60},
	},
	{
		ID: "user_behavior_mining", Name: "User Behavior Mining", Category: CategoryData,
		Description: "Mine clickstreams. Effective, and legally grey.",
		Cost:        Cost{Budget: 200, ComputePoints: 1},
		Effects: effect.Bundle{
			DirtyData: 200, LegalRisk: 10,
			Dimensions: effect.Dim(dimension.UserExperience, 2),
		},
	},

	// Training
	{
		ID: "basic_training", Name: "Basic Training", Category: CategoryTraining,
		Description: "A routine training run.",
		Cost:        Cost{ComputePoints: 1, GoldenData: 20},
		Effects:     effect.Bundle{Accuracy: 3, Entropy: 5},
	},
	{
		ID: "deep_training", Name: "Deep Training", Category: CategoryTraining,
		Description: "A long, expensive training run.",
		Cost:        Cost{Budget: 200, ComputePoints: 2, GoldenData: 60},
		Effects: effect.Bundle{
			Accuracy: 6, Robustness: 3, Entropy: 8,
			Dimensions: effect.Dim(dimension.Algorithm, 2),
		},
	},
	{
		ID: "speed_optimization", Name: "Speed Optimization", Category: CategoryTraining,
		Description: "Profile and trim the serving path.",
		Cost:        Cost{Budget: 100, ComputePoints: 1},
		Effects:     effect.Bundle{Speed: 4, Entropy: 4},
	},
	{
		ID: "creative_tuning", Name: "Creative Tuning", Category: CategoryTraining,
		Description: "Tune for serendipity.",
		Cost:        Cost{ComputePoints: 1, GoldenData: 30},
		Effects:     effect.Bundle{Creativity: 4, Entropy: 4},
	},
	{
		ID: "adversarial_training", Name: "Adversarial Training", Category: CategoryTraining,
		Description: "Harden the model against hostile inputs.",
		Cost:        Cost{ComputePoints: 2, GoldenData: 40},
		Effects: effect.Bundle{
			Robustness: 5, Entropy: 5,
			Dimensions: effect.Dim(dimension.Stability, 2),
		},
	},
	{
		ID: "experimental_architecture", Name: "Experimental Architecture", Category: CategoryTraining,
		Description: "Bet on an unproven architecture.",
		Cost:        Cost{Budget: 500, ComputePoints: 2},
		Gamble: &Gamble{
			SuccessRate: 0.5,
			Success: effect.Bundle{
				Accuracy: 10, Creativity: 8,
				Dimensions: effect.Dim(dimension.Algorithm, 5),
			},
			Failure: effect.Bundle{Entropy: 15, Accuracy: -3},
		},
	},
	{
		ID: "model_distillation", Name: "Model Distillation", Category: CategoryTraining,
		Description: "Compress the model for faster inference.",
		Cost:        Cost{Budget: 300, ComputePoints: 2},
		Effects:     effect.Bundle{Speed: 6, Accuracy: -1, Entropy: 3},
		Predicate:   PredicateAlgorithm40,
	},

	// Infrastructure
	{
		ID: "refactor_code", Name: "Refactor Code", Category: CategoryInfrastructure,
		Description: "Pay down technical debt.",
		Cost:        Cost{Budget: 200, ComputePoints: 2},
		Effects:     effect.Bundle{Entropy: -15, Dimensions: effect.Dim(dimension.Stability, 3)},
	},
	{
		ID: "emergency_rollback", Name: "Emergency Rollback", Category: CategoryInfrastructure,
		Description: "Roll back to the last stable build.",
		Cost:        Cost{Budget: 300, ComputePoints: 1},
		Effects:     effect.Bundle{Entropy: -20, Accuracy: -3},
		Predicate:   PredicateEntropy60,
	},
	{
		ID: "chaos_engineering", Name: "Chaos Engineering", Category: CategoryInfrastructure,
		Description: "Break things on purpose with the whole team watching.",
		Cost:        Cost{Budget: 400, ComputePoints: 2},
		Effects: effect.Bundle{
			Robustness: 4, Entropy: -5,
			Dimensions: effect.Dim(dimension.Stability, 4),
		},
		Predicate: PredicateTeam3,
	},

	// Research
	{
		ID: "break_ceiling", Name: "Break the Ceiling", Category: CategoryResearch,
		Description: "Fundamental research that raises the fit score cap.",
		Cost:        Cost{Budget: 2000, ComputePoints: 3, GoldenData: 100},
		Effects:     effect.Bundle{FitScoreCap: 10, Entropy: 5},
		Predicate:   PredicateCapBelowMax,
	},
	{
		ID: "exploratory_research", Name: "Exploratory Research", Category: CategoryResearch,
		Description: "Poke at two random directions.",
		Cost:        Cost{Budget: 400, ComputePoints: 2},
		Effects:     effect.Bundle{RandomDimensions: &effect.RandomDimensions{Count: 2, Amount: 3}, Entropy: 2},
	},
	{
		ID: "hackathon", Name: "Hackathon", Category: CategoryResearch,
		Description: "A weekend of team hacking.",
		Cost:        Cost{Budget: 300, ComputePoints: 2},
		Effects: effect.Bundle{
			Creativity:       3,
			RandomDimensions: &effect.RandomDimensions{Count: 1, Amount: 5},
			Entropy:          4,
		},
		Predicate: PredicateTeam2,
	},
	{
		ID: "research_paper", Name: "Publish a Paper", Category: CategoryResearch,
		Description: "Publish results in the area of your choosing.",
		Cost:        Cost{ComputePoints: 2, GoldenData: 40},
		Effects:     effect.Bundle{ChosenDimension: 4, Reputation: 3},
		Predicate:   PredicateReputation30,

		RequiresDimensionChoice: true,
	},

	// Business
	{
		ID: "ab_testing", Name: "A/B Testing", Category: CategoryBusiness,
		Description: "Ship two variants and measure.",
		Cost:        Cost{Budget: 150, ComputePoints: 1},
		Effects:     effect.Bundle{Reputation: 2, Dimensions: effect.Dim(dimension.UserExperience, 3)},
	},
	{
		ID: "compliance_audit", Name: "Compliance Audit", Category: CategoryBusiness,
		Description: "Bring in lawyers before the regulator does.",
		Cost:        Cost{Budget: 500, ComputePoints: 1},
		Effects:     effect.Bundle{LegalRisk: -30, Reputation: 3},
		Predicate:   PredicateLegalRisk20,
	},
	{
		ID: "pr_campaign", Name: "PR Campaign", Category: CategoryBusiness,
		Description: "Buy some goodwill.",
		Cost:        Cost{Budget: 600, ComputePoints: 1},
		Effects:     effect.Bundle{Reputation: 8},
	},

	// Side jobs
	{
		ID: "outsourcing_project", Name: "Outsourcing Project", Category: CategorySideJob,
		Description: "Build someone else's recommender for cash.",
		Cost:        Cost{ComputePoints: 2},
		Effects:     effect.Bundle{Budget: effect.Range(300, 800), Entropy: 3},
		Predicate:   PredicateSideJobAvailable,
		IsSideJob:   true,
	},
	{
		ID: "consulting", Name: "Consulting Gig", Category: CategorySideJob,
		Description: "Rent out your expertise.",
		Cost:        Cost{ComputePoints: 1},
		Effects:     effect.Bundle{Budget: effect.Range(500, 1000)},
		Predicate:   PredicateSideJobReputation30,
		IsSideJob:   true,
	},
	{
		ID: "sell_data", Name: "Sell Data", Category: CategorySideJob,
		Description: "Sell raw data to a broker.",
		Cost:        Cost{ComputePoints: 1, DirtyData: 300},
		Effects:     effect.Bundle{Budget: effect.Fixed(600), LegalRisk: 15, Reputation: -3},
		Predicate:   PredicateSideJobAvailable,
		IsSideJob:   true,
	},
	{
		ID: "crypto_mining", Name: "Crypto Mining", Category: CategorySideJob,
		Description: "Point the cluster at a blockchain and pray.",
		Cost:        Cost{ComputePoints: 3},
		Gamble: &Gamble{
			SuccessRate: 0.4,
			Success:     effect.Bundle{Budget: effect.Fixed(2000), Entropy: 5},
			Failure:     effect.Bundle{Budget: effect.Fixed(-200), Entropy: 10},
		},
		Predicate: PredicateSideJobAvailable,
		IsSideJob: true,
	},
	{
		ID: "tech_talk_tour", Name: "Tech Talk Tour", Category: CategorySideJob,
		Description: "Paid conference keynotes.",
		Cost:        Cost{ComputePoints: 1},
		Effects:     effect.Bundle{Budget: effect.Range(200, 600), Reputation: 2},
		Predicate:   PredicateSideJobReputation50,
		IsSideJob:   true,
	},
}
