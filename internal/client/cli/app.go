// Package cli is a small terminal client for the bookshelf API. The prompt
// offers the auth command set or the main command set depending on where the
// navigation guard says the user belongs.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/bookwyrm/bookshelf-system/internal/client/api"
	"github.com/bookwyrm/bookshelf-system/internal/client/navigation"
	"github.com/bookwyrm/bookshelf-system/internal/client/session"
)

type App struct {
	client *api.Client
	store  *session.Store
	reader *bufio.Reader
	group  navigation.ScreenGroup
}

func NewApp(client *api.Client, store *session.Store) *App {
	return &App{
		client: client,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		group:  navigation.GroupAuth,
	}
}

// Run restores the session, then loops on the prompt until exit or ctx done.
func (a *App) Run(ctx context.Context) {
	a.store.CheckAuth(ctx)
	a.applyGuard()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := a.prompt()
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return
		}

		a.dispatch(ctx, fields)
		a.applyGuard()
	}
}

// applyGuard moves the prompt between command sets whenever the session
// state says the current group is wrong.
func (a *App) applyGuard() {
	switch navigation.Evaluate(a.store.State(), a.group) {
	case navigation.RedirectSignIn:
		a.group = navigation.GroupAuth
		fmt.Println("Please sign in. Commands: signin, signup, exit")
	case navigation.RedirectMain:
		a.group = navigation.GroupMain
		if user := a.store.User(); user != nil {
			fmt.Printf("Signed in as %s. Commands: feed, mine, add, delete <id>, whoami, logout, exit\n", user.Username)
		}
	}
}

func (a *App) dispatch(ctx context.Context, fields []string) {
	cmd, args := fields[0], fields[1:]

	if a.group == navigation.GroupAuth {
		switch cmd {
		case "signin":
			a.signIn(ctx)
		case "signup":
			a.signUp(ctx)
		default:
			fmt.Println("unknown command; available: signin, signup, exit")
		}
		return
	}

	switch cmd {
	case "feed":
		a.feed(ctx)
	case "mine":
		a.mine(ctx)
	case "add":
		a.addBook(ctx)
	case "delete":
		a.deleteBook(ctx, args)
	case "whoami":
		a.whoami()
	case "logout":
		a.store.Logout(ctx)
		fmt.Println("Signed out.")
	default:
		fmt.Println("unknown command; available: feed, mine, add, delete <id>, whoami, logout, exit")
	}
}

func (a *App) signIn(ctx context.Context) {
	email := a.readLine("Email: ")
	password, err := a.readPassword("Password: ")
	if err != nil {
		fmt.Println("could not read password:", err)
		return
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		fmt.Println("Sign-in failed:", err)
		return
	}
}

func (a *App) signUp(ctx context.Context) {
	username := a.readLine("Username: ")
	email := a.readLine("Email: ")
	password, err := a.readPassword("Password: ")
	if err != nil {
		fmt.Println("could not read password:", err)
		return
	}

	if err := a.store.Register(ctx, username, email, password); err != nil {
		fmt.Println("Sign-up failed:", err)
		return
	}
	fmt.Println("Account created. Use signin to log in.")
}

func (a *App) feed(ctx context.Context) {
	feed, err := a.client.Feed(ctx, 1, 20)
	if err != nil {
		fmt.Println("Could not fetch feed:", err)
		return
	}
	if len(feed.Books) == 0 {
		fmt.Println("No recommendations yet.")
		return
	}
	for _, b := range feed.Books {
		owner := ""
		if b.Owner != nil {
			owner = " by " + b.Owner.Username
		}
		fmt.Printf("%s  %s%s  %s  (%s)\n", b.ID, b.Title, owner, stars(b.Rating), b.Caption)
	}
	fmt.Printf("Page %d of %d (%d books)\n", feed.Page, feed.TotalPages, feed.TotalBooks)
}

func (a *App) mine(ctx context.Context) {
	books, err := a.client.Mine(ctx)
	if err != nil {
		fmt.Println("Could not fetch your books:", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("You have not posted any recommendations.")
		return
	}
	for _, b := range books {
		fmt.Printf("%s  %s  %s  (%s)\n", b.ID, b.Title, stars(b.Rating), b.Caption)
	}
}

func (a *App) addBook(ctx context.Context) {
	title := a.readLine("Title: ")
	caption := a.readLine("Caption: ")
	path := a.readLine("Cover image file: ")
	ratingStr := a.readLine("Rating (1-5): ")

	rating, err := strconv.Atoi(strings.TrimSpace(ratingStr))
	if err != nil {
		fmt.Println("rating must be a number between 1 and 5")
		return
	}

	image, err := encodeImageFile(path)
	if err != nil {
		fmt.Println("could not read image:", err)
		return
	}

	book, err := a.client.CreateBook(ctx, title, caption, image, rating)
	if err != nil {
		fmt.Println("Could not create recommendation:", err)
		return
	}
	fmt.Printf("Created %s (%s)\n", book.Title, book.ID)
}

func (a *App) deleteBook(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: delete <id>")
		return
	}
	if err := a.client.DeleteBook(ctx, args[0]); err != nil {
		fmt.Println("Could not delete:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) whoami() {
	user := a.store.User()
	if user == nil {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
}

func (a *App) prompt() (string, error) {
	if a.group == navigation.GroupAuth {
		fmt.Print("bookshelf (signed out)> ")
	} else {
		fmt.Print("bookshelf> ")
	}
	return a.reader.ReadString('\n')
}

func (a *App) readLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *App) readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return string(b), err
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
