package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "rooms":
		handleRooms(args)
	case "booking":
		handleBooking(args)
	case "admin":
		handleAdmin(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`roomreserve - hotel booking API client

Usage:
  roomreserve auth <register|login|logout|who>
  roomreserve rooms <list|get>
  roomreserve booking <create|list|get|guest|mine>
  roomreserve admin <users|bookings|set-status|stats|report>

Environment:
  ROOMRESERVE_API   API base URL (default http://localhost:8080/api)`)
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve auth <register|login|logout|who>")
		return
	}

	switch args[0] {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleRooms(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve rooms <list|get>")
		return
	}

	switch args[0] {
	case "list":
		listRooms()
	case "get":
		getRoom(args[1:])
	default:
		fmt.Printf("unknown rooms command: %s\n", args[0])
	}
}

func handleBooking(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve booking <create|list|get|guest|mine>")
		return
	}

	switch args[0] {
	case "create":
		createBooking(args[1:])
	case "list":
		listBookings(args[1:])
	case "get":
		getBooking(args[1:])
	case "guest":
		guestBookings(args[1:])
	case "mine":
		myBookings()
	default:
		fmt.Printf("unknown booking command: %s\n", args[0])
	}
}

func handleAdmin(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve admin <users|bookings|set-status|stats|report>")
		return
	}

	switch args[0] {
	case "users":
		adminUsers(args[1:])
	case "bookings":
		adminBookings(args[1:])
	case "set-status":
		adminSetStatus(args[1:])
	case "stats":
		adminStats()
	case "report":
		adminReport(args[1:])
	default:
		fmt.Printf("unknown admin command: %s\n", args[0])
	}
}

// Auth commands

func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (min 8 chars)")
	name := fs.String("name", "", "full name")
	fs.Parse(args)

	if *email == "" || *password == "" || *name == "" {
		fmt.Println("Error: email, password, and name are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"email":     *email,
		"password":  *password,
		"full_name": *name,
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/register", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == http.StatusCreated {
		fmt.Printf("✓ User registered: %s\n", *email)
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result["detail"])
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/login/json", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == http.StatusOK {
		if token, ok := result["access_token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result["detail"])
	}
}

func logoutUser() {
	token := loadToken()
	if token != "" {
		// Best effort server-side revocation; the local token is removed
		// either way.
		req, _ := http.NewRequest("POST", getAPIURL()+"/auth/logout", nil)
		addAuthHeader(req)
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/auth/me", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Println("Not logged in")
		return
	}

	var user map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&user)
	fmt.Printf("✓ Logged in as %v (%v, role %v)\n", user["email"], user["full_name"], user["role"])
}

// Room commands

func listRooms() {
	resp, err := http.Get(getAPIURL() + "/rooms")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var rooms []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&rooms)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE/NIGHT\tMAX GUESTS")
	for _, room := range rooms {
		fmt.Fprintf(w, "%v\t%v\t$%.2f\t%v\n",
			room["id"], room["name"], room["price_per_night"], room["max_guests"])
	}
	w.Flush()
}

func getRoom(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve rooms get <room-id>")
		return
	}

	resp, err := http.Get(getAPIURL() + "/rooms/" + url.PathEscape(args[0]))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printJSONBody(resp)
}

// Booking commands

func createBooking(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	roomID := fs.String("room", "", "room ID")
	guest := fs.String("guest", "", "guest name")
	checkIn := fs.String("checkin", "", "check-in date (YYYY-MM-DD)")
	checkOut := fs.String("checkout", "", "check-out date (YYYY-MM-DD)")
	guests := fs.Int("guests", 1, "number of guests")
	fs.Parse(args)

	if *roomID == "" || *guest == "" || *checkIn == "" || *checkOut == "" {
		fmt.Println("Error: room, guest, checkin, and checkout are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{
		"room_id":        *roomID,
		"guest_name":     *guest,
		"check_in_date":  *checkIn,
		"check_out_date": *checkOut,
		"guests":         *guests,
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/bookings", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == http.StatusCreated {
		fmt.Printf("✓ Booking created: %v (%v, total $%.2f)\n",
			result["id"], result["status"], result["total_price"])
	} else {
		fmt.Printf("✗ Booking failed: %v\n", result["detail"])
	}
}

func listBookings(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	fs.Parse(args)

	endpoint := getAPIURL() + "/bookings"
	if *status != "" {
		endpoint += "?status=" + url.QueryEscape(*status)
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printBookingTable(resp)
}

func getBooking(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve booking get <booking-id>")
		return
	}

	resp, err := http.Get(getAPIURL() + "/bookings/" + url.PathEscape(args[0]))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printJSONBody(resp)
}

func guestBookings(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roomreserve booking guest <guest-name>")
		return
	}

	resp, err := http.Get(getAPIURL() + "/bookings/guest/" + url.PathEscape(args[0]))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printBookingTable(resp)
}

func myBookings() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/user/bookings", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printBookingTable(resp)
}

// Admin commands

func adminUsers(args []string) {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	search := fs.String("search", "", "filter by email or name")
	fs.Parse(args)

	endpoint := getAPIURL() + "/admin/users"
	if *search != "" {
		endpoint += "?q=" + url.QueryEscape(*search)
	}

	req, _ := http.NewRequest("GET", endpoint, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		printErrorBody(resp)
		return
	}

	var users []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&users)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n",
			u["id"], u["email"], u["full_name"], u["role"], u["is_active"])
	}
	w.Flush()
}

func adminBookings(args []string) {
	fs := flag.NewFlagSet("bookings", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	search := fs.String("search", "", "filter by guest, room or email")
	fs.Parse(args)

	q := url.Values{}
	if *status != "" {
		q.Set("status", *status)
	}
	if *search != "" {
		q.Set("q", *search)
	}
	endpoint := getAPIURL() + "/admin/bookings"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, _ := http.NewRequest("GET", endpoint, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printBookingTable(resp)
}

func adminSetStatus(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: roomreserve admin set-status <booking-id> <pending|confirmed|cancelled|completed>")
		return
	}

	data, _ := json.Marshal(map[string]string{"status": args[1]})
	req, _ := http.NewRequest("PATCH", getAPIURL()+"/admin/bookings/"+url.PathEscape(args[0]), bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == http.StatusOK {
		fmt.Printf("✓ Booking %v is now %v\n", result["id"], result["status"])
	} else {
		fmt.Printf("✗ Update failed: %v\n", result["detail"])
	}
}

func adminStats() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/admin/stats", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printJSONBody(resp)
}

func adminReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	days := fs.Int("days", 7, "report window in days")
	fs.Parse(args)

	req, _ := http.NewRequest("GET", fmt.Sprintf("%s/admin/report?days=%d", getAPIURL(), *days), nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printJSONBody(resp)
}

// Helper functions

func printBookingTable(resp *http.Response) {
	if resp.StatusCode != http.StatusOK {
		printErrorBody(resp)
		return
	}

	var bookings []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&bookings)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROOM\tGUEST\tCHECK-IN\tCHECK-OUT\tTOTAL\tSTATUS")
	for _, b := range bookings {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t$%.2f\t%v\n",
			b["id"], b["room_name"], b["guest_name"],
			b["check_in_date"], b["check_out_date"], b["total_price"], b["status"])
	}
	w.Flush()
}

func printJSONBody(resp *http.Response) {
	if resp.StatusCode >= 400 {
		printErrorBody(resp)
		return
	}

	var body interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	pretty, _ := json.MarshalIndent(body, "", "  ")
	fmt.Println(string(pretty))
}

func printErrorBody(resp *http.Response) {
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	fmt.Printf("✗ Request failed (%d): %v\n", resp.StatusCode, result["detail"])
}

func getAPIURL() string {
	if u := os.Getenv("ROOMRESERVE_API"); u != "" {
		return u
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.roomreserve/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.roomreserve", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
