// Command seed populates a running courseboard API with demo data: a handful
// of courses, students, and non-overlapping enrollments. Safe to rerun;
// duplicate titles are skipped.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type course struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type student struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var courses = []course{
	{"Algebra", "Linear equations and polynomials", "09:00", 45},
	{"History", "From antiquity to the modern era", "10:00", 60},
	{"Biology", "Cells, genetics and ecosystems", "11:15", 45},
	{"Literature", "Close reading and composition", "13:00", 90},
	{"Chemistry", "Atoms, bonds and reactions", "15:00", 45},
}

var students = []student{
	{"Ada", "Lovelace", 20},
	{"Grace", "Hopper", 22},
	{"Alan", "Turing", 21},
	{"Katherine", "Johnson", 19},
	{"Edsger", "Dijkstra", 23},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "courseboard API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		id, err := post(client, base+"/courses", c)
		if err != nil {
			log.Printf("course %q skipped: %v", c.Title, err)
			continue
		}
		log.Printf("course %q created (%s)", c.Title, id)
		courseIDs = append(courseIDs, id)
	}

	studentIDs := make([]string, 0, len(students))
	for _, s := range students {
		id, err := post(client, base+"/students", s)
		if err != nil {
			log.Printf("student %s %s skipped: %v", s.FirstName, s.LastName, err)
			continue
		}
		log.Printf("student %s %s created (%s)", s.FirstName, s.LastName, id)
		studentIDs = append(studentIDs, id)
	}

	// The demo schedule has no overlapping slots, so spreading each student
	// over two consecutive courses never trips the conflict check.
	enrolled := 0
	for i, studentID := range studentIDs {
		for j := 0; j < 2 && len(courseIDs) > 0; j++ {
			courseID := courseIDs[(i+j)%len(courseIDs)]
			payload := map[string]string{"student_id": studentID}
			if _, err := post(client, base+"/courses/"+courseID+"/students", payload); err != nil {
				log.Printf("enrollment skipped: %v", err)
				continue
			}
			enrolled++
		}
	}
	log.Printf("done: %d courses, %d students, %d enrollments", len(courseIDs), len(studentIDs), enrolled)
}

func post(client *http.Client, url string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return "", fmt.Errorf("%s", env.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var record struct {
		ID string `json:"id"`
	}
	if env.Data != nil {
		_ = json.Unmarshal(env.Data, &record)
	}
	return record.ID, nil
}
