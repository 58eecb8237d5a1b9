package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
	"github.com/facedeck/facedeck/internal/imaging"
	"github.com/facedeck/facedeck/internal/nameutil"
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "Manage the person registry",
}

var personsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered persons",
	RunE:  runPersonsList,
}

var personsShowCmd = &cobra.Command{
	Use:   "show [person-id]",
	Short: "Show one person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonsShow,
}

var personsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a new person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonsCreate,
}

var personsUpdateCmd = &cobra.Command{
	Use:   "update [person-id]",
	Short: "Update a person's name, description or active state",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonsUpdate,
}

var personsDeleteCmd = &cobra.Command{
	Use:   "delete [person-id]",
	Short: "Delete a person and their enrolled photos",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonsDelete,
}

var personsAddPhotoCmd = &cobra.Command{
	Use:   "add-photo [person-id] [image-file]",
	Short: "Enroll a photo for a person",
	Args:  cobra.ExactArgs(2),
	RunE:  runPersonsAddPhoto,
}

func init() {
	rootCmd.AddCommand(personsCmd)
	personsCmd.AddCommand(personsListCmd)
	personsCmd.AddCommand(personsShowCmd)
	personsCmd.AddCommand(personsCreateCmd)
	personsCmd.AddCommand(personsUpdateCmd)
	personsCmd.AddCommand(personsDeleteCmd)
	personsCmd.AddCommand(personsAddPhotoCmd)

	personsListCmd.Flags().Int("skip", 0, "Number of persons to skip")
	personsListCmd.Flags().Int("limit", 100, "Maximum number of persons to list")
	personsListCmd.Flags().String("search", "", "Filter by name (case and diacritics insensitive)")

	personsCreateCmd.Flags().String("description", "", "Free-form description")

	personsUpdateCmd.Flags().String("name", "", "New name")
	personsUpdateCmd.Flags().String("description", "", "New description")
	personsUpdateCmd.Flags().Bool("active", true, "Whether the person participates in recognition")
}

func runPersonsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	skip := mustGetInt(cmd, "skip")
	limit := mustGetInt(cmd, "limit")
	search := mustGetString(cmd, "search")

	persons, err := client.ListPersons(cmd.Context(), skip, limit)
	if err != nil {
		return fmt.Errorf("could not list persons: %w", err)
	}

	if search != "" {
		filtered := persons[:0]
		for _, p := range persons {
			if nameutil.Matches(p.Name, search) {
				filtered = append(filtered, p)
			}
		}
		persons = filtered
	}

	if len(persons) == 0 {
		fmt.Println("No persons found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tPHOTOS")
	for _, p := range persons {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\n", p.ID, p.Name, p.Active, p.PhotoCount)
	}
	return w.Flush()
}

func runPersonsShow(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	person, err := client.GetPerson(cmd.Context(), args[0])
	if err != nil {
		if faceapi.IsNotFound(err) {
			return fmt.Errorf("person %s not found", args[0])
		}
		return fmt.Errorf("could not get person: %w", err)
	}

	fmt.Printf("ID:          %s\n", person.ID)
	fmt.Printf("Name:        %s\n", person.Name)
	if person.Description != "" {
		fmt.Printf("Description: %s\n", person.Description)
	}
	fmt.Printf("Active:      %t\n", person.Active)
	fmt.Printf("Photos:      %d\n", person.PhotoCount)
	fmt.Printf("Created:     %s\n", person.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func runPersonsCreate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	person, err := client.CreatePerson(cmd.Context(), faceapi.PersonCreate{
		Name:        args[0],
		Description: mustGetString(cmd, "description"),
	})
	if err != nil {
		return fmt.Errorf("could not create person: %w", err)
	}

	fmt.Printf("Created %s (%s)\n", person.Name, person.ID)
	return nil
}

func runPersonsUpdate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	var update faceapi.PersonUpdate
	if cmd.Flags().Changed("name") {
		name := mustGetString(cmd, "name")
		update.Name = &name
	}
	if cmd.Flags().Changed("description") {
		description := mustGetString(cmd, "description")
		update.Description = &description
	}
	if cmd.Flags().Changed("active") {
		active := mustGetBool(cmd, "active")
		update.Active = &active
	}
	if update.Name == nil && update.Description == nil && update.Active == nil {
		return fmt.Errorf("nothing to update, pass --name, --description or --active")
	}

	person, err := client.UpdatePerson(cmd.Context(), args[0], update)
	if err != nil {
		if faceapi.IsNotFound(err) {
			return fmt.Errorf("person %s not found", args[0])
		}
		return fmt.Errorf("could not update person: %w", err)
	}

	fmt.Printf("Updated %s (%s)\n", person.Name, person.ID)
	return nil
}

func runPersonsDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	if err := client.DeletePerson(cmd.Context(), args[0]); err != nil {
		if faceapi.IsNotFound(err) {
			return fmt.Errorf("person %s not found", args[0])
		}
		return fmt.Errorf("could not delete person: %w", err)
	}

	fmt.Printf("Deleted person %s\n", args[0])
	return nil
}

func runPersonsAddPhoto(cmd *cobra.Command, args []string) error {
	personID, imagePath := args[0], args[1]

	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	data, err := os.ReadFile(imagePath) //nolint:gosec // operator-provided path
	if err != nil {
		return fmt.Errorf("could not read image: %w", err)
	}
	if err := imaging.Validate(filepath.Base(imagePath), data, cfg.Limits.MaxUploadBytes); err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(int64(len(data)), "Uploading")
	reader := progressbar.NewReader(bytes.NewReader(data), bar)

	person, err := client.AddPersonPhoto(cmd.Context(), personID, filepath.Base(imagePath), &reader)
	if err != nil {
		if faceapi.IsNotFound(err) {
			return fmt.Errorf("person %s not found", personID)
		}
		return fmt.Errorf("could not add photo: %w", err)
	}

	fmt.Printf("Enrolled photo for %s (%d photos total)\n", person.Name, person.PhotoCount)
	return nil
}
