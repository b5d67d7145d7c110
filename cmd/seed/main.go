package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/service"
	"github.com/pageza/cucina/backend/internal/store"
)

const seedCreator = "seed"

type seedRecipe struct {
	name        string
	description string
	category    models.Category
	difficulty  models.Difficulty
	minutes     int
	servings    int
	ingredients []models.Ingredient
	steps       []string
	tags        []string
}

var recipes = []seedRecipe{
	{
		name: "Weeknight Tomato Pasta", description: "Pantry pasta with garlic and basil",
		category: models.CategoryDinner, difficulty: models.DifficultyEasy, minutes: 25, servings: 4,
		ingredients: []models.Ingredient{
			{Name: "spaghetti", Amount: 400, Unit: "g"},
			{Name: "crushed tomatoes", Amount: 1, Unit: "can"},
			{Name: "garlic", Amount: 3, Unit: "cloves"},
			{Name: "basil", Amount: 1, Unit: "handful"},
		},
		steps: []string{"Boil the pasta", "Fry the garlic and add tomatoes", "Toss with pasta and basil"},
		tags:  []string{"quick", "vegetarian"},
	},
	{
		name: "Sheet Pan Chicken", description: "Roast chicken thighs with vegetables",
		category: models.CategoryDinner, difficulty: models.DifficultyMedium, minutes: 50, servings: 4,
		ingredients: []models.Ingredient{
			{Name: "chicken thighs", Amount: 8, Unit: ""},
			{Name: "potatoes", Amount: 600, Unit: "g"},
			{Name: "carrots", Amount: 4, Unit: ""},
			{Name: "olive oil", Amount: 3, Unit: "tbsp"},
		},
		steps: []string{"Heat the oven to 220C", "Toss everything in oil", "Roast for 40 minutes"},
		tags:  []string{"family", "one-pan"},
	},
	{
		name: "Banana Pancakes", description: "Fluffy pancakes for slow mornings",
		category: models.CategoryBreakfast, difficulty: models.DifficultyEasy, minutes: 20, servings: 3,
		ingredients: []models.Ingredient{
			{Name: "flour", Amount: 1.5, Unit: "cup"},
			{Name: "banana", Amount: 2, Unit: ""},
			{Name: "milk", Amount: 1, Unit: "cup"},
			{Name: "egg", Amount: 1, Unit: ""},
		},
		steps: []string{"Mash the bananas", "Whisk in the rest", "Cook on a hot griddle"},
		tags:  []string{"kids"},
	},
	{
		name: "Chocolate Mousse", description: "Rich dessert that sets overnight",
		category: models.CategoryDessert, difficulty: models.DifficultyHard, minutes: 40, servings: 6,
		ingredients: []models.Ingredient{
			{Name: "dark chocolate", Amount: 200, Unit: "g"},
			{Name: "eggs", Amount: 4, Unit: ""},
			{Name: "sugar", Amount: 50, Unit: "g"},
		},
		steps: []string{"Melt the chocolate", "Whip the whites", "Fold together and chill"},
		tags:  []string{"make-ahead"},
	},
}

func main() {
	suggest := flag.Bool("suggest", false, "also ask the assistant for recipes matching the demo user's preferences")
	pollHours := flag.Int("poll-hours", 24, "how long the demo dinner poll stays open")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg, lg)
	if err != nil {
		lg.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)
	if err := database.RunMigrations(db, lg); err != nil {
		lg.Fatal("Failed to run migrations", "error", err)
	}

	ctx := context.Background()
	st := store.New(db, lg)
	catalog := service.NewRecipeCatalog(st, lg)
	users := service.NewUserService(st, lg)
	engine := service.NewVotingEngine(st, lg)

	user, err := users.Create(ctx, &models.User{
		Name:  "Demo Parent",
		Email: "parent@example.com",
		Preferences: models.Preferences{
			DietaryRestrictions: []models.DietaryRestriction{models.DietNutFree},
			CuisinePreferences:  []string{"Italian", "Mexican"},
			SpiceLevel:          models.SpiceMild,
			HealthGoals:         []models.HealthGoal{models.GoalGeneralWellness},
		},
	})
	if err != nil {
		lg.Fatal("Failed to create demo user", "error", err)
	}

	var dinners []uuid.UUID
	for _, s := range recipes {
		r, err := catalog.Add(ctx, &models.Recipe{
			Name:         s.name,
			Description:  s.description,
			Category:     s.category,
			Difficulty:   s.difficulty,
			CookingTime:  s.minutes,
			Servings:     s.servings,
			Ingredients:  s.ingredients,
			Instructions: s.steps,
			Tags:         s.tags,
			CreatedBy:    seedCreator,
		})
		if err != nil {
			lg.Error("Failed to add recipe", "name", s.name, "error", err)
			continue
		}
		if r.Category == models.CategoryDinner {
			dinners = append(dinners, r.ID)
		}
	}

	if *suggest {
		assistant := service.NewSuggestionService(service.SuggestionConfig{
			APIURL: cfg.AIAPIURL,
			APIKey: cfg.AIAPIKey,
			Model:  cfg.AIModel,
		}, nil, st.Codec(), lg)

		suggested, err := assistant.SuggestRecipes(ctx, user.Preferences)
		if err != nil {
			lg.Error("Failed to fetch suggestions", "error", err)
		}
		for _, r := range suggested {
			added, err := catalog.Add(ctx, r)
			if err != nil {
				lg.Warn("Skipping suggested recipe", "name", r.Name, "error", err)
				continue
			}
			if added.Category == models.CategoryDinner {
				dinners = append(dinners, added.ID)
			}
		}
	}

	if len(dinners) > 0 {
		p, err := engine.CreatePoll(ctx, service.CreatePollInput{
			Title:       "What's for dinner?",
			Description: "Vote for tonight's dinner",
			RecipeIDs:   dinners,
			Duration:    time.Duration(*pollHours) * time.Hour,
			CreatedBy:   user.ID.String(),
		})
		if err != nil {
			lg.Fatal("Failed to create demo poll", "error", err)
		}
		lg.Info("Created demo poll", "id", p.ID.String(), "options", len(p.Options))
	}

	lg.Info("Seeding complete", "user_id", user.ID.String(), "recipes", len(recipes))
}
