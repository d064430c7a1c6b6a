package service

import (
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// ReplacementWindowDays is the last day after purchase on which an
// in-warranty end consumer still gets a new unit
const ReplacementWindowDays = 30

// ComputeTriage decides the support path for an intake. Rules are checked in
// order and the first match wins:
//
//  1. retailers always get a replacement unit;
//  2. in-warranty end consumers with a readable purchase date get a
//     replacement up to ReplacementWindowDays calendar days after purchase
//     and technical assistance afterwards;
//  3. out-of-warranty end consumers go to manual review;
//  4. anything else yields TriageNone.
//
// purchaseDate is the raw YYYY-MM-DD form value; empty or unreadable dates
// count as absent. Days are counted between calendar dates in now's location.
func ComputeTriage(customerType models.CustomerType, warranty models.WarrantyStatus, purchaseDate string, now time.Time) models.TriageOutcome {
	switch customerType {
	case models.CustomerTypeRetailer:
		return models.TriageReplace

	case models.CustomerTypeEndConsumer:
		switch warranty {
		case models.WarrantyIn:
			purchased, ok := models.ParseDate(purchaseDate)
			if !ok {
				return models.TriageNone
			}
			// Future purchase dates give a negative count and land here too
			if purchased.DaysUntil(models.DateOf(now)) <= ReplacementWindowDays {
				return models.TriageReplace
			}
			return models.TriageTechnicalAssistance

		case models.WarrantyOut:
			return models.TriageManualReview
		}
	}

	return models.TriageNone
}
