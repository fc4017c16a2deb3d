package rules

import (
	"github.com/ledgerlift/backend/internal/models"
	"gorm.io/gorm"
)

// SeedRules returns the built-in starter rule set. Seeded rules are
// system-owned (no owner) and therefore visible to every owner, who can
// shadow them with higher-priority rules of their own.
//
// The internal-transfer rule deliberately sits at the top priority and is
// strict: a transfer between own accounts must never be budgeted, so it
// has to beat every merchant rule that might also match the description.
func SeedRules() []models.Rule {
	system := func(name, keywords, cat1, cat2 string, t models.TransactionType, fixVar models.FixVar, priority int) models.Rule {
		return models.Rule{
			Name:           name,
			Keywords:       keywords,
			CategoryLevel1: cat1,
			CategoryLevel2: cat2,
			Type:           t,
			FixVar:         fixVar,
			Priority:       priority,
			Active:         true,
			System:         true,
		}
	}

	internal := system("Internal transfers",
		"UEBERTRAG;UMBUCHUNG;EIGENUEBERTRAG;OWN TRANSFER;INTERNAL TRANSFER",
		CategoryInternal, "", models.TypeExpense, models.CostVariable, 1000)
	internal.Strict = true

	return []models.Rule{
		internal,

		system("Groceries",
			"LIDL;ALDI;REWE;EDEKA;PENNY;NETTO;KAUFLAND;DENN*;SUPERMARKT",
			"Household", "Groceries", models.TypeExpense, models.CostVariable, 500),
		system("Drugstores",
			"DM DROGERIE;DM-DROGERIE;ROSSMANN;MUELLER DROGERIE",
			"Household", "Drugstore", models.TypeExpense, models.CostVariable, 500),
		system("Fuel",
			"ARAL;SHELL;ESSO;JET TANKSTELLE;TOTAL;TANKSTELLE",
			"Mobility", "Fuel", models.TypeExpense, models.CostVariable, 500),
		system("Public transport",
			"DEUTSCHE BAHN;DB VERTRIEB;DB FERNVERKEHR;BVG;MVG;HVV;VBB",
			"Mobility", "Public Transport", models.TypeExpense, models.CostVariable, 500),
		system("Restaurants and delivery",
			"RESTAURANT;LIEFERANDO;WOLT;UBER EATS;MCDONALDS;BURGER KING;PIZZERIA",
			"Leisure", "Eating Out", models.TypeExpense, models.CostVariable, 400),
		system("Streaming",
			"NETFLIX;SPOTIFY;DISNEY PLUS;AMAZON PRIME;YOUTUBE PREMIUM",
			"Leisure", "Subscriptions", models.TypeExpense, models.CostFixed, 400),
		system("Online shopping",
			"AMAZON*;AMZN;ZALANDO;EBAY;OTTO.DE",
			"Shopping", "Online", models.TypeExpense, models.CostVariable, 300),
		system("Rent",
			"MIETE;KALTMIETE;WARMMIETE;RENT",
			"Housing", "Rent", models.TypeExpense, models.CostFixed, 600),
		system("Utilities",
			"STADTWERKE;VATTENFALL;EON;E.ON;STROM;GAS ABSCHLAG",
			"Housing", "Utilities", models.TypeExpense, models.CostFixed, 500),
		system("Telecom",
			"TELEKOM;VODAFONE;O2;1UND1;1&1;CONGSTAR",
			"Housing", "Internet & Phone", models.TypeExpense, models.CostFixed, 500),
		system("Insurance",
			"VERSICHERUNG;ALLIANZ;HUK;AXA;ERGO",
			"Finance", "Insurance", models.TypeExpense, models.CostFixed, 500),
		system("Cash withdrawals",
			"BARGELDAUSZAHLUNG;GELDAUTOMAT;ATM;CASH WITHDRAWAL",
			"Finance", "Cash", models.TypeExpense, models.CostVariable, 450),
		system("Salary",
			"GEHALT;LOHN;SALARY;BEZUEGE",
			"Income", "Salary", models.TypeIncome, models.CostFixed, 600),
	}
}

// Seed inserts the built-in rules. A system rule whose name already
// exists is left untouched, so repeated seeding stays idempotent and
// never reverts edits an operator made to a seeded rule.
func Seed(db *gorm.DB) (int, error) {
	var created int

	for _, rule := range SeedRules() {
		var count int64
		err := db.Model(&models.Rule{}).
			Where("system AND name = ?", rule.Name).
			Count(&count).Error
		if err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		err = db.Create(&rule).Error
		if err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
