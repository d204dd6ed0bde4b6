package usecase

import "airtalk-service/internal/domain/entity"

// Template tables for the scripted dialogue. Each candidate list is drawn
// either deterministically (index 0) or uniformly, and slots are filled by
// positional formatting.

var greetingPairs = [][2]string{
	{"Hello.", "Hi."},
	{"Hey, how are you.", "I am fine. Thanks for asking."},
	{"Hello there.", "Hey!"},
	{"Hey there.", "Hi."},
	{"Hi.", "Hello."},
	{"How is it going?", "I am good. Thank you."},
}

var agentAsk = []string{
	"How can I help you today?",
	"What can I do for you today?",
}

// The %s slot optionally carries " from X to Y" when the customer names the
// route inline.
var customerRequest = map[entity.Goal][]string{
	entity.GoalBook: {
		"I would like to book a flight%s.",
		"I want to book a flight%s.",
		"Please help me to book a flight%s.",
		"Could you help me to book a flight%s?",
	},
	entity.GoalCancel: {
		"Could you help me to cancel my flight?",
		"Please help me to cancel my reservation.",
		"I would like to cancel my reservation.",
	},
	entity.GoalChange: {
		"I would like to change my reservation%s.",
		"Could you help me to change my recent flight reservation%s?",
		"I need help to change my reservation%s.",
	},
}

var agentAskCities = map[entity.Goal][]string{
	entity.GoalBook: {
		"Sure, may I start with the departure and arrival city?",
		"Not a problem. What's your departure and arrival city?",
		"Happy to do so. Could you tell me your departure and arrival city?",
	},
	entity.GoalChange: {
		"Sure. What's the departure and arrival city for your updated reservation?",
		"Not a problem. Could you tell me the departure and arrival city for your updated reservation?",
		"I see. Could you tell me the departure and arrival city of your updated reservation?",
	},
}

var agentAskDates = []string{
	"What's the departure and return date?",
	"What day do you want to depart and return?",
}

var customerCities = []string{
	"My departure city is %s and my return city is %s.",
	"I will be flying from %s to %s.",
	"Departure city is %s and return city is %s.",
}

var customerDates = []string{
	"I will be departing on %s and returning on %s.",
	"I am planning to depart on %s and return on %s.",
}

var customerReveal = map[entity.ConditionKey][]string{
	entity.KeyDepartureTime: {
		"I am actually considering departing in the %s.",
		"Is there any flight that departs in the %s?",
		"I am actually thinking about departing in the %s.",
	},
	entity.KeyReturnTime: {
		"I would prefer to return in the %s.",
		"Can you find a flight that returns in the %s?",
	},
	entity.KeyClass: {
		"I am looking for a %s class flight.",
		"Do you have any %s class flights available?",
	},
	entity.KeyMaxConnections: {
		"I prefer no more than %s connections.",
		"Could you find me flights that are less than or equal to %s connections?",
	},
	entity.KeyMaxPrice: {
		"I have a strict budget constraint. Could you find me flights that are below $%s?",
		"My budget limits me to flights that are cheaper than $%s.",
	},
	entity.KeyAirlinePreference: {
		"Could you help me to find a normal fare airline other than a low-cost one?",
		"I prefer not to fly low-cost airlines.",
	},
}

var customerSatisfied = []string{
	"This flight looks good.",
	"Sounds good.",
	"Looking good.",
}

var agentSuggestionFull = []string{
	"We have flight %d that departs from %s on %s at %s and returns from %s on %s at %s. This is a %s class flight with %s. The total price is $%d.",
}

var agentSuggestionShort = []string{
	"I have flight %d that departs the same day at %s and returns the same day at %s. This is a %s class flight with %s and a total price of $%d.",
	"How about flight %d? It departs the same day at %s and returns the same day at %s. It is a %s class with %s and a price of $%d.",
}

var agentAskName = []string{
	"May I have the name for the reservation?",
	"What's the name for this reservation?",
	"Could you let me know the name for this reservation?",
}

var customerName = []string{
	"My name is %s.",
	"%s",
}

var agentConfirm = map[entity.Status][]string{
	entity.StatusCancel: {
		"I am able to locate your ticket. Could you confirm that you want to cancel it?",
		"I found your reservation. Are you sure you want to cancel it?",
		"Just want to confirm that you want to cancel the ticket, correct?",
	},
	entity.StatusChange: {
		"I just want to confirm everything we have worked on so far. You are about to change the reservation to flight %d. Could you confirm?",
		"Just one more step and I will be done. Could you confirm your change to flight %d?",
	},
	entity.StatusBook: {
		"We have your ticket of flight %d. Do I have your permission to proceed?",
		"I just want to confirm with you on flight %d. Is this the ticket we are going to book?",
	},
}

var customerConfirm = map[entity.Status][]string{
	entity.StatusBook: {
		"Yes, please go ahead and book the ticket.",
		"Confirmed. Please go ahead.",
	},
	entity.StatusChange: {
		"That is correct. Please make the changes.",
		"Sounds good. Please proceed.",
	},
	entity.StatusAbort: {
		"Actually, I have changed my mind.",
		"Well, I gave it a second thought and I have decided to keep my original reservation.",
	},
	entity.StatusCancel: {
		"Yes, please cancel it.",
		"Yup, please cancel it.",
	},
}

var agentConclusion = map[entity.Status][]string{
	entity.StatusCancel: {
		"Your ticket has been canceled. Thank you for using our flight booking service.",
		"Not a problem. I have canceled your ticket. Have a good day.",
		"Your ticket is canceled. Please let us know if you have other requests.",
	},
	entity.StatusBook: {
		"Your booking has been confirmed. Thank you.",
		"Your ticket has been booked. Have a nice day.",
		"We have successfully booked your trip. Thanks for using our flight booking service.",
	},
	entity.StatusChange: {
		"I have updated your reservation. Thanks for using our flight booking service.",
		"Your reservation has been updated. Please let us know if you have other requests.",
		"We have successfully updated your reservation. Have a nice day.",
	},
	entity.StatusNoFlight: {
		"I can not find any flights that satisfy your requests.",
		"There is no flight that satisfies your requests.",
	},
	entity.StatusAbort: {
		"You have chosen not to proceed. Thanks for using our flight booking service.",
		"Not a problem. We will keep your reservation unchanged. Have a nice day.",
	},
	entity.StatusNoReservation: {
		"I am sorry, but I can not locate your reservation.",
		"Your reservation can not be found in our system. Please check your account.",
	},
}
