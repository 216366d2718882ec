package wheel

import "fmt"

// Outcome is the payout evaluation of a landed spin.
type Outcome struct {
	Selected int
	Winning  int
	Bet      int
	Won      bool
	// Delta is the balance change: +Bet*36 on a win, -Bet otherwise.
	Delta   int
	Balance int
}

// Message is the line shown to the player.
func (o Outcome) Message() string {
	if o.Won {
		return fmt.Sprintf("JACKPOT! You selected %d and won $%d!", o.Selected, o.Delta)
	}
	return fmt.Sprintf("You selected %d but got %d. Lost $%d", o.Selected, o.Winning, o.Bet)
}
